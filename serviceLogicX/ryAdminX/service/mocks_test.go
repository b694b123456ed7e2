package service

import (
	"context"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockJobRepository 任务仓储的Mock实现
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job domain.SysJob) (domain.SysJob, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(domain.SysJob), args.Error(1)
}

func (m *MockJobRepository) Update(ctx context.Context, job domain.SysJob) (int64, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) FindById(ctx context.Context, id int64) (domain.SysJob, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.SysJob), args.Error(1)
}

func (m *MockJobRepository) FindAll(ctx context.Context) ([]domain.SysJob, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SysJob), args.Error(1)
}

func (m *MockJobRepository) FindRunning(ctx context.Context) ([]domain.SysJob, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SysJob), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, filter domain.JobFilter, page domain.Page, scope func(*gorm.DB) *gorm.DB) ([]domain.SysJob, error) {
	args := m.Called(ctx, filter, page, scope)
	return args.Get(0).([]domain.SysJob), args.Error(1)
}

func (m *MockJobRepository) Count(ctx context.Context, filter domain.JobFilter, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	args := m.Called(ctx, filter, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) DeleteByIds(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockReconciler 调度队列同步的Mock实现
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) UniqueId(job domain.SysJob) string {
	return job.UniqueId()
}

func (m *MockReconciler) Register(ctx context.Context, job domain.SysJob) bool {
	return m.Called(ctx, job).Bool(0)
}

func (m *MockReconciler) Remove(ctx context.Context, job domain.SysJob) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockReconciler) RunOnce(ctx context.Context, job domain.SysJob) error {
	return m.Called(ctx, job).Error(0)
}

// MockJobLogRepository 执行日志仓储的Mock实现
type MockJobLogRepository struct {
	mock.Mock
}

func (m *MockJobLogRepository) Create(ctx context.Context, log domain.SysJobLog) (domain.SysJobLog, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(domain.SysJobLog), args.Error(1)
}

func (m *MockJobLogRepository) CreateBatch(ctx context.Context, logs []domain.SysJobLog) error {
	return m.Called(ctx, logs).Error(0)
}

func (m *MockJobLogRepository) FindById(ctx context.Context, id int64) (domain.SysJobLog, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.SysJobLog), args.Error(1)
}

func (m *MockJobLogRepository) List(ctx context.Context, filter domain.JobLogFilter, page domain.Page) ([]domain.SysJobLog, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]domain.SysJobLog), args.Error(1)
}

func (m *MockJobLogRepository) Count(ctx context.Context, filter domain.JobLogFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobLogRepository) DeleteByIds(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobLogRepository) Clean(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
