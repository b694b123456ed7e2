package repository

import (
	"context"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/repository/dao"
	"gitee.com/hgg_test/ry_admin/sliceX"
	"gorm.io/gorm"
)

var (
	ErrDataRecordNotFound error = dao.ErrDataRecordNotFound
	ErrDuplicateData      error = dao.ErrDuplicateData
)

type JobRepository interface {
	Create(ctx context.Context, job domain.SysJob) (domain.SysJob, error)
	Update(ctx context.Context, job domain.SysJob) (int64, error)
	FindById(ctx context.Context, id int64) (domain.SysJob, error)
	FindAll(ctx context.Context) ([]domain.SysJob, error)
	FindRunning(ctx context.Context) ([]domain.SysJob, error)
	List(ctx context.Context, filter domain.JobFilter, page domain.Page, scope func(*gorm.DB) *gorm.DB) ([]domain.SysJob, error)
	Count(ctx context.Context, filter domain.JobFilter, scope func(*gorm.DB) *gorm.DB) (int64, error)
	DeleteByIds(ctx context.Context, ids []int64) (int64, error)
}

type jobRepository struct {
	dao dao.JobDAO
}

func NewJobRepository(d dao.JobDAO) JobRepository {
	return &jobRepository{dao: d}
}

func (r *jobRepository) Create(ctx context.Context, job domain.SysJob) (domain.SysJob, error) {
	entity, err := r.dao.Insert(ctx, jobToEntity(job))
	if err != nil {
		return domain.SysJob{}, err
	}
	return jobToDomain(entity), nil
}

func (r *jobRepository) Update(ctx context.Context, job domain.SysJob) (int64, error) {
	return r.dao.Update(ctx, jobToEntity(job))
}

func (r *jobRepository) FindById(ctx context.Context, id int64) (domain.SysJob, error) {
	job, err := r.dao.FindById(ctx, id)
	if err != nil {
		return domain.SysJob{}, err
	}
	return jobToDomain(job), nil
}

func (r *jobRepository) FindAll(ctx context.Context) ([]domain.SysJob, error) {
	jobs, err := r.dao.FindAll(ctx)
	return jobsToDomain(jobs), err
}

func (r *jobRepository) FindRunning(ctx context.Context) ([]domain.SysJob, error) {
	jobs, err := r.dao.FindByStatus(ctx, domain.JobStatusNormal)
	return jobsToDomain(jobs), err
}

func (r *jobRepository) List(ctx context.Context, filter domain.JobFilter, page domain.Page, scope func(*gorm.DB) *gorm.DB) ([]domain.SysJob, error) {
	jobs, err := r.dao.List(ctx, dao.JobFilter(filter), page.Offset(), page.PageSize, scope)
	return jobsToDomain(jobs), err
}

func (r *jobRepository) Count(ctx context.Context, filter domain.JobFilter, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	return r.dao.Count(ctx, dao.JobFilter(filter), scope)
}

func (r *jobRepository) DeleteByIds(ctx context.Context, ids []int64) (int64, error) {
	return r.dao.DeleteByIds(ctx, ids)
}

func jobsToDomain(jobs []dao.SysJob) []domain.SysJob {
	return sliceX.Map[dao.SysJob, domain.SysJob](jobs, func(idx int, src dao.SysJob) domain.SysJob {
		return jobToDomain(src)
	})
}

func jobToDomain(j dao.SysJob) domain.SysJob {
	return domain.SysJob{
		JobId:          j.JobId,
		JobName:        j.JobName,
		JobGroup:       j.JobGroup,
		InvokeTarget:   j.InvokeTarget,
		CronExpression: j.CronExpression,
		MisfirePolicy:  j.MisfirePolicy,
		Concurrent:     j.Concurrent,
		Status:         j.Status,
		CreateBy:       j.CreateBy,
		CreateTime:     j.CreateTime,
		UpdateBy:       j.UpdateBy,
		UpdateTime:     j.UpdateTime,
		Remark:         j.Remark,
	}
}

func jobToEntity(j domain.SysJob) dao.SysJob {
	return dao.SysJob{
		JobId:          j.JobId,
		JobName:        j.JobName,
		JobGroup:       j.JobGroup,
		InvokeTarget:   j.InvokeTarget,
		CronExpression: j.CronExpression,
		MisfirePolicy:  j.MisfirePolicy,
		Concurrent:     j.Concurrent,
		Status:         j.Status,
		CreateBy:       j.CreateBy,
		CreateTime:     j.CreateTime,
		UpdateBy:       j.UpdateBy,
		UpdateTime:     j.UpdateTime,
		Remark:         j.Remark,
	}
}
