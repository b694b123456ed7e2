package repository

import (
	"context"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/repository/dao"
	"gitee.com/hgg_test/ry_admin/sliceX"
)

type JobLogRepository interface {
	Create(ctx context.Context, log domain.SysJobLog) (domain.SysJobLog, error)
	CreateBatch(ctx context.Context, logs []domain.SysJobLog) error
	FindById(ctx context.Context, id int64) (domain.SysJobLog, error)
	List(ctx context.Context, filter domain.JobLogFilter, page domain.Page) ([]domain.SysJobLog, error)
	Count(ctx context.Context, filter domain.JobLogFilter) (int64, error)
	DeleteByIds(ctx context.Context, ids []int64) (int64, error)
	Clean(ctx context.Context) (int64, error)
}

type jobLogRepository struct {
	dao dao.JobLogDAO
}

func NewJobLogRepository(d dao.JobLogDAO) JobLogRepository {
	return &jobLogRepository{dao: d}
}

func (r *jobLogRepository) Create(ctx context.Context, log domain.SysJobLog) (domain.SysJobLog, error) {
	entity, err := r.dao.Insert(ctx, jobLogToEntity(log))
	if err != nil {
		return domain.SysJobLog{}, err
	}
	return jobLogToDomain(entity), nil
}

func (r *jobLogRepository) CreateBatch(ctx context.Context, logs []domain.SysJobLog) error {
	return r.dao.InsertBatch(ctx, sliceX.Map[domain.SysJobLog, dao.SysJobLog](logs, func(idx int, src domain.SysJobLog) dao.SysJobLog {
		return jobLogToEntity(src)
	}))
}

func (r *jobLogRepository) FindById(ctx context.Context, id int64) (domain.SysJobLog, error) {
	log, err := r.dao.FindById(ctx, id)
	if err != nil {
		return domain.SysJobLog{}, err
	}
	return jobLogToDomain(log), nil
}

func (r *jobLogRepository) List(ctx context.Context, filter domain.JobLogFilter, page domain.Page) ([]domain.SysJobLog, error) {
	logs, err := r.dao.List(ctx, dao.JobLogFilter(filter), page.Offset(), page.PageSize)
	return sliceX.Map[dao.SysJobLog, domain.SysJobLog](logs, func(idx int, src dao.SysJobLog) domain.SysJobLog {
		return jobLogToDomain(src)
	}), err
}

func (r *jobLogRepository) Count(ctx context.Context, filter domain.JobLogFilter) (int64, error) {
	return r.dao.Count(ctx, dao.JobLogFilter(filter))
}

func (r *jobLogRepository) DeleteByIds(ctx context.Context, ids []int64) (int64, error) {
	return r.dao.DeleteByIds(ctx, ids)
}

func (r *jobLogRepository) Clean(ctx context.Context) (int64, error) {
	return r.dao.Clean(ctx)
}

func jobLogToDomain(l dao.SysJobLog) domain.SysJobLog {
	return domain.SysJobLog{
		JobLogId:      l.JobLogId,
		JobName:       l.JobName,
		JobGroup:      l.JobGroup,
		InvokeTarget:  l.InvokeTarget,
		JobMessage:    l.JobMessage,
		Status:        l.Status,
		ExceptionInfo: l.ExceptionInfo,
		CreateTime:    l.CreateTime,
	}
}

func jobLogToEntity(l domain.SysJobLog) dao.SysJobLog {
	return dao.SysJobLog{
		JobLogId:      l.JobLogId,
		JobName:       l.JobName,
		JobGroup:      l.JobGroup,
		InvokeTarget:  l.InvokeTarget,
		JobMessage:    l.JobMessage,
		Status:        l.Status,
		ExceptionInfo: l.ExceptionInfo,
		CreateTime:    l.CreateTime,
	}
}
