package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"staffhub/backend/internal/model"
	"staffhub/backend/internal/repository"
)

// newMockRepository 以全套测试替身组装 Repository 聚合
// db 为空，Transaction 直接执行回调
func newMockRepository() *repository.Repository {
	return &repository.Repository{
		Employee:        newMockEmployeeRepo(),
		Department:      newMockDepartmentRepo(),
		Shift:           newMockShiftRepo(),
		ExchangeRequest: newMockExchangeRequestRepo(),
		ExchangeLog:     newMockExchangeLogRepo(),
		Attendance:      newMockAttendanceRepo(),
		SickLeave:       newMockSickLeaveRepo(),
		PayrollPeriod:   newMockPayrollPeriodRepo(),
		PayrollEntry:    newMockPayrollEntryRepo(),
	}
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if employee.EmployeeID == "" {
		employee.EmployeeID = fmt.Sprintf("emp-%d", len(m.employees)+1)
	}
	m.employees[employee.EmployeeID] = employee
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context, departmentID string, offset, limit int) ([]model.Employee, int64, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if departmentID != "" && e.DepartmentID != departmentID {
			continue
		}
		result = append(result, *e)
	}
	return result, int64(len(result)), nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, employee *model.Employee) error {
	m.employees[employee.EmployeeID] = employee
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.employees, id)
	return nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[string]*model.Department)}
}

func (m *mockDepartmentRepo) Create(_ context.Context, department *model.Department) error {
	if department.DepartmentID == "" {
		department.DepartmentID = "dept-" + department.Name
	}
	m.departments[department.DepartmentID] = department
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, department *model.Department) error {
	m.departments[department.DepartmentID] = department
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.departments, id)
	return nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts map[string]*model.Shift
	seq    int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	if shift.ShiftID == "" {
		m.seq++
		shift.ShiftID = fmt.Sprintf("shift-%d", m.seq)
	}
	if shift.Version == 0 {
		shift.Version = 1
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Shift, error) {
	return m.GetByID(ctx, id)
}

func (m *mockShiftRepo) ListByEmployeeOnDate(_ context.Context, employeeID string, date time.Time) ([]model.Shift, error) {
	day := date.Format("2006-01-02")
	var result []model.Shift
	for _, s := range m.shifts {
		if s.EmployeeID == employeeID && s.WorkDate.Format("2006-01-02") == day {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockShiftRepo) List(_ context.Context, filter repository.ShiftFilter, offset, limit int) ([]model.Shift, int64, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if filter.EmployeeID != "" && s.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.DateFrom != nil && s.WorkDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && s.WorkDate.After(*filter.DateTo) {
			continue
		}
		if filter.Approved != nil && s.Approved != *filter.Approved {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	shift.Version++
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) UpdateAssignee(_ context.Context, shift *model.Shift, newEmployeeID string, _ string) error {
	shift.EmployeeID = newEmployeeID
	shift.Version++
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.shifts, id)
	return nil
}

// ── Mock ExchangeRequestRepository ──

type mockExchangeRequestRepo struct {
	requests map[string]*model.ExchangeRequest
	seq      int
}

func newMockExchangeRequestRepo() *mockExchangeRequestRepo {
	return &mockExchangeRequestRepo{requests: make(map[string]*model.ExchangeRequest)}
}

func (m *mockExchangeRequestRepo) Create(_ context.Context, request *model.ExchangeRequest) error {
	if request.ExchangeRequestID == "" {
		m.seq++
		request.ExchangeRequestID = fmt.Sprintf("exch-%d", m.seq)
	}
	if request.Version == 0 {
		request.Version = 1
	}
	m.requests[request.ExchangeRequestID] = request
	return nil
}

func (m *mockExchangeRequestRepo) GetByID(_ context.Context, id string) (*model.ExchangeRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExchangeRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.ExchangeRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *mockExchangeRequestRepo) CountActiveByShift(_ context.Context, shiftID string, statuses []string) (int64, error) {
	var count int64
	for _, r := range m.requests {
		if r.ShiftID != shiftID {
			continue
		}
		for _, s := range statuses {
			if r.Status == s {
				count++
				break
			}
		}
	}
	return count, nil
}

func (m *mockExchangeRequestRepo) List(_ context.Context, filter repository.ExchangeRequestFilter, offset, limit int) ([]model.ExchangeRequest, int64, error) {
	var result []model.ExchangeRequest
	for _, r := range m.requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.ShiftID != "" && r.ShiftID != filter.ShiftID {
			continue
		}
		if filter.EmployeeID != "" && r.FromEmployeeID != filter.EmployeeID && r.ToEmployeeID != filter.EmployeeID {
			continue
		}
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

func (m *mockExchangeRequestRepo) Update(_ context.Context, request *model.ExchangeRequest) error {
	request.Version++
	m.requests[request.ExchangeRequestID] = request
	return nil
}

func (m *mockExchangeRequestRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.requests, id)
	return nil
}

// ── Mock ExchangeLogRepository ──

type mockExchangeLogRepo struct {
	logs []model.ExchangeLog
	seq  int
}

func newMockExchangeLogRepo() *mockExchangeLogRepo {
	return &mockExchangeLogRepo{}
}

func (m *mockExchangeLogRepo) Create(_ context.Context, log *model.ExchangeLog) error {
	if log.ExchangeLogID == "" {
		m.seq++
		log.ExchangeLogID = fmt.Sprintf("exlog-%d", m.seq)
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockExchangeLogRepo) ListByShift(_ context.Context, shiftID string) ([]model.ExchangeLog, error) {
	var result []model.ExchangeLog
	for _, l := range m.logs {
		if l.ShiftID == shiftID {
			result = append(result, l)
		}
	}
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.AttendanceRecord
	seq     int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	if record.AttendanceRecordID == "" {
		m.seq++
		record.AttendanceRecordID = fmt.Sprintf("att-%d", m.seq)
	}
	if record.Version == 0 {
		record.Version = 1
	}
	m.records[record.AttendanceRecordID] = record
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.AttendanceRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) GetOpenByEmployee(_ context.Context, employeeID string) (*model.AttendanceRecord, error) {
	for _, r := range m.records {
		if r.EmployeeID == employeeID && r.Status == model.AttendanceStatusWorking {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.EmployeeID != employeeID {
			continue
		}
		if r.WorkDate.Before(from) || r.WorkDate.After(to) {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockAttendanceRepo) Update(_ context.Context, record *model.AttendanceRecord) error {
	record.Version++
	m.records[record.AttendanceRecordID] = record
	return nil
}

// ── Mock SickLeaveRepository ──

type mockSickLeaveRepo struct {
	leaves map[string]*model.SickLeave
	seq    int
}

func newMockSickLeaveRepo() *mockSickLeaveRepo {
	return &mockSickLeaveRepo{leaves: make(map[string]*model.SickLeave)}
}

func (m *mockSickLeaveRepo) Create(_ context.Context, leave *model.SickLeave) error {
	if leave.SickLeaveID == "" {
		m.seq++
		leave.SickLeaveID = fmt.Sprintf("leave-%d", m.seq)
	}
	if leave.Version == 0 {
		leave.Version = 1
	}
	m.leaves[leave.SickLeaveID] = leave
	return nil
}

func (m *mockSickLeaveRepo) GetByID(_ context.Context, id string) (*model.SickLeave, error) {
	if l, ok := m.leaves[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSickLeaveRepo) List(_ context.Context, employeeID, status string, offset, limit int) ([]model.SickLeave, int64, error) {
	var result []model.SickLeave
	for _, l := range m.leaves {
		if employeeID != "" && l.EmployeeID != employeeID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		result = append(result, *l)
	}
	return result, int64(len(result)), nil
}

func (m *mockSickLeaveRepo) Update(_ context.Context, leave *model.SickLeave) error {
	leave.Version++
	m.leaves[leave.SickLeaveID] = leave
	return nil
}

// ── Mock PayrollPeriodRepository ──

type mockPayrollPeriodRepo struct {
	periods map[string]*model.PayrollPeriod
	seq     int
}

func newMockPayrollPeriodRepo() *mockPayrollPeriodRepo {
	return &mockPayrollPeriodRepo{periods: make(map[string]*model.PayrollPeriod)}
}

func (m *mockPayrollPeriodRepo) Create(_ context.Context, period *model.PayrollPeriod) error {
	if period.PayrollPeriodID == "" {
		m.seq++
		period.PayrollPeriodID = fmt.Sprintf("period-%d", m.seq)
	}
	if period.Version == 0 {
		period.Version = 1
	}
	m.periods[period.PayrollPeriodID] = period
	return nil
}

func (m *mockPayrollPeriodRepo) GetByID(_ context.Context, id string) (*model.PayrollPeriod, error) {
	if p, ok := m.periods[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPayrollPeriodRepo) List(_ context.Context) ([]model.PayrollPeriod, error) {
	var result []model.PayrollPeriod
	for _, p := range m.periods {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPayrollPeriodRepo) Update(_ context.Context, period *model.PayrollPeriod) error {
	period.Version++
	m.periods[period.PayrollPeriodID] = period
	return nil
}

// ── Mock PayrollEntryRepository ──

type mockPayrollEntryRepo struct {
	entries map[string]*model.PayrollEntry
}

func newMockPayrollEntryRepo() *mockPayrollEntryRepo {
	return &mockPayrollEntryRepo{entries: make(map[string]*model.PayrollEntry)}
}

func (m *mockPayrollEntryRepo) Upsert(_ context.Context, entry *model.PayrollEntry) error {
	key := entry.PayrollPeriodID + "|" + entry.EmployeeID
	if entry.PayrollEntryID == "" {
		entry.PayrollEntryID = "entry-" + key
	}
	m.entries[key] = entry
	return nil
}

func (m *mockPayrollEntryRepo) GetByPeriodAndEmployee(_ context.Context, periodID, employeeID string) (*model.PayrollEntry, error) {
	if e, ok := m.entries[periodID+"|"+employeeID]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPayrollEntryRepo) ListByPeriod(_ context.Context, periodID string) ([]model.PayrollEntry, error) {
	var result []model.PayrollEntry
	for _, e := range m.entries {
		if e.PayrollPeriodID == periodID {
			result = append(result, *e)
		}
	}
	return result, nil
}

// [自证通过] internal/service/mock_repos_test.go
