package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/service"
	"staffhub/backend/pkg/response"
)

// ExchangeHandler 换班模块 HTTP 处理器
type ExchangeHandler struct {
	exchangeSvc service.ExchangeService
}

// NewExchangeHandler 创建 ExchangeHandler
func NewExchangeHandler(exchangeSvc service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeSvc: exchangeSvc}
}

// CreateExchange 创建换班申请
// POST /api/v1/shift-exchanges
func (h *ExchangeHandler) CreateExchange(c *gin.Context) {
	var req dto.CreateExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.exchangeSvc.CreateRequest(c.Request.Context(), &req, callerID, callerRole)
	if err != nil {
		h.handleExchangeError(c, err)
		return
	}

	response.Created(c, result)
}

// ListExchanges 获取换班申请列表
// GET /api/v1/shift-exchanges
func (h *ExchangeHandler) ListExchanges(c *gin.Context) {
	var req dto.ExchangeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.exchangeSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ResolveExchange 审批换班申请
// PATCH /api/v1/shift-exchanges/:id
func (h *ExchangeHandler) ResolveExchange(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "换班申请ID不能为空")
		return
	}

	var req dto.ResolveExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var (
		result *dto.ExchangeRequestResponse
		err    error
	)
	if req.Status == "approved" {
		result, err = h.exchangeSvc.Approve(c.Request.Context(), id, callerID)
	} else {
		result, err = h.exchangeSvc.Reject(c.Request.Context(), id, callerID)
	}
	if err != nil {
		h.handleExchangeError(c, err)
		return
	}

	response.OK(c, result)
}

// CancelExchange 撤销换班申请
// DELETE /api/v1/shift-exchanges/:id
func (h *ExchangeHandler) CancelExchange(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "换班申请ID不能为空")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.exchangeSvc.Cancel(c.Request.Context(), id, callerID, callerRole); err != nil {
		h.handleExchangeError(c, err)
		return
	}

	response.OK(c, nil)
}

// DirectExchange 直接换班（管理端拖拽/菜单操作）
// POST /api/v1/shifts/:id/exchange
func (h *ExchangeHandler) DirectExchange(c *gin.Context) {
	shiftID := c.Param("id")
	if shiftID == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	var req dto.DirectExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.exchangeSvc.DirectExchange(c.Request.Context(), shiftID, &req, callerID)
	if err != nil {
		h.handleExchangeError(c, err)
		return
	}

	response.OK(c, result)
}

// ExchangeHistory 获取班次换班历史
// GET /api/v1/shifts/:id/exchanges
func (h *ExchangeHandler) ExchangeHistory(c *gin.Context) {
	shiftID := c.Param("id")
	if shiftID == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	logs, err := h.exchangeSvc.History(c.Request.Context(), shiftID)
	if err != nil {
		h.handleExchangeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": logs})
}

// handleExchangeError 统一处理换班模块业务错误
func (h *ExchangeHandler) handleExchangeError(c *gin.Context, err error) {
	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		respondScheduleConflict(c, conflictErr)
		return
	}

	switch {
	case errors.Is(err, service.ErrExchangeRequestNotFound):
		response.NotFound(c, 14001, "换班申请不存在")
	case errors.Is(err, service.ErrExchangeShiftNotFound):
		response.NotFound(c, 14002, "班次不存在")
	case errors.Is(err, service.ErrExchangeInvalidState):
		response.BadRequest(c, 14003, "换班申请非待处理状态")
	case errors.Is(err, service.ErrExchangeInvalidParticipants):
		response.BadRequest(c, 14004, "换班参与双方无效")
	case errors.Is(err, service.ErrExchangeDuplicateActive):
		response.Conflict(c, 14005, "该班次已存在待处理或已批准的换班申请")
	case errors.Is(err, service.ErrExchangeCounterpartInvalid):
		response.BadRequest(c, 14006, "对方班次无效或不属于目标员工")
	case errors.Is(err, service.ErrExchangeNotRequester):
		response.Forbidden(c, 14007, "仅申请人或管理员可撤销换班申请")
	case errors.Is(err, service.ErrExchangeNotShiftOwner):
		response.Forbidden(c, 14008, "仅班次当前归属员工或管理员可发起换班申请")
	case errors.Is(err, service.ErrShiftTimeInvalid):
		response.BadRequest(c, 13005, "日期或时间格式无效")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/exchange_handler.go
