package dto

// ── 员工模块 DTO ──

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	Email        string `json:"email"         binding:"required,email"`
	Password     string `json:"password"      binding:"required,min=8,max=64"`
	Role         string `json:"role"          binding:"omitempty,oneof=admin manager employee"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

// UpdateEmployeeRequest 更新员工请求
type UpdateEmployeeRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=100"`
	Email        *string `json:"email"         binding:"omitempty,email"`
	Role         *string `json:"role"          binding:"omitempty,oneof=admin manager employee"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
}

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	PaginationRequest
}

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name              string `json:"name"                binding:"required,min=2,max=100"`
	DefaultHourlyRate string `json:"default_hourly_rate" binding:"omitempty"`
}

// UpdateDepartmentRequest 更新部门请求
type UpdateDepartmentRequest struct {
	Name              *string `json:"name"                binding:"omitempty,min=2,max=100"`
	DefaultHourlyRate *string `json:"default_hourly_rate" binding:"omitempty"`
}

// EmployeeResponse 员工信息响应（脱敏）
type EmployeeResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Role       string              `json:"role"`
	Department *DepartmentResponse `json:"department,omitempty"`
	CreatedAt  string              `json:"created_at"`
}

// [自证通过] internal/dto/employee.go
