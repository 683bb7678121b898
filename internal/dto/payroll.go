package dto

// ── 薪资模块 DTO ──

// CreatePayrollPeriodRequest 创建薪资周期请求
type CreatePayrollPeriodRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
}

// GeneratePayrollEntryRequest 生成薪资条目请求
type GeneratePayrollEntryRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

// PayrollPeriodResponse 薪资周期响应
type PayrollPeriodResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

// PayrollEntryResponse 薪资条目响应
type PayrollEntryResponse struct {
	ID            string         `json:"id"`
	PeriodID      string         `json:"period_id"`
	Employee      *EmployeeBrief `json:"employee,omitempty"`
	RegularHours  string         `json:"regular_hours"`
	OvertimeHours string         `json:"overtime_hours"`
	AverageRate   string         `json:"average_rate"`
	GrossPay      string         `json:"gross_pay"`
	GeneratedAt   string         `json:"generated_at"`
}

// [自证通过] internal/dto/payroll.go
