package model

import "time"

// SickLeave 病假申请表 — 对应 sick_leaves
type SickLeave struct {
	SickLeaveID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"sick_leave_id"`
	EmployeeID  string     `gorm:"type:uuid;not null"                             json:"employee_id"`
	StartDate   time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time  `gorm:"type:date;not null"                             json:"end_date"`
	Reason      string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	ApprovedBy  *string    `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	VersionedModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (SickLeave) TableName() string { return "sick_leaves" }

// [自证通过] internal/model/sick_leave.go
