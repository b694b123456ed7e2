package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// JobFilter 空值不过滤；JobName / InvokeTarget 模糊匹配
type JobFilter struct {
	JobName      string
	JobGroup     string
	Status       string
	InvokeTarget string
}

type JobDAO interface {
	Insert(ctx context.Context, job SysJob) (SysJob, error)
	// Update 只更新非零值字段，返回影响行数
	Update(ctx context.Context, job SysJob) (int64, error)
	FindById(ctx context.Context, id int64) (SysJob, error)
	FindAll(ctx context.Context) ([]SysJob, error)
	FindByStatus(ctx context.Context, status string) ([]SysJob, error)
	// List scope 为数据权限条件，引用别名 j / u / d
	List(ctx context.Context, filter JobFilter, offset, limit int, scope func(*gorm.DB) *gorm.DB) ([]SysJob, error)
	Count(ctx context.Context, filter JobFilter, scope func(*gorm.DB) *gorm.DB) (int64, error)
	DeleteByIds(ctx context.Context, ids []int64) (int64, error)
}

type GormJobDAO struct {
	db *gorm.DB
}

func NewJobDAO(db *gorm.DB) JobDAO {
	return &GormJobDAO{db: db}
}

func (g *GormJobDAO) Insert(ctx context.Context, job SysJob) (SysJob, error) {
	now := time.Now()
	job.CreateTime = now
	job.UpdateTime = now
	err := g.db.WithContext(ctx).Create(&job).Error
	return job, translate(err)
}

func (g *GormJobDAO) Update(ctx context.Context, job SysJob) (int64, error) {
	job.UpdateTime = time.Now()
	res := g.db.WithContext(ctx).Model(&SysJob{}).
		Where("job_id = ?", job.JobId).
		Omit("job_id", "create_by", "create_time").
		Updates(&job)
	return res.RowsAffected, translate(res.Error)
}

func (g *GormJobDAO) FindById(ctx context.Context, id int64) (SysJob, error) {
	var job SysJob
	err := g.db.WithContext(ctx).Where("job_id = ?", id).First(&job).Error
	return job, translate(err)
}

func (g *GormJobDAO) FindAll(ctx context.Context) ([]SysJob, error) {
	var jobs []SysJob
	err := g.db.WithContext(ctx).Order("job_id").Find(&jobs).Error
	return jobs, translate(err)
}

func (g *GormJobDAO) FindByStatus(ctx context.Context, status string) ([]SysJob, error) {
	var jobs []SysJob
	err := g.db.WithContext(ctx).Where("status = ?", status).Order("job_id").Find(&jobs).Error
	return jobs, translate(err)
}

// listQuery sys_job j 关联创建人与其部门，供数据权限条件引用
func (g *GormJobDAO) listQuery(ctx context.Context, filter JobFilter, scope func(*gorm.DB) *gorm.DB) *gorm.DB {
	q := g.db.WithContext(ctx).Table("sys_job j")
	if scope != nil {
		q = q.Joins("LEFT JOIN sys_user u ON u.user_name = j.create_by").
			Joins("LEFT JOIN sys_dept d ON d.dept_id = u.dept_id").
			Scopes(scope)
	}
	if filter.JobName != "" {
		q = q.Where("j.job_name LIKE ?", "%"+filter.JobName+"%")
	}
	if filter.JobGroup != "" {
		q = q.Where("j.job_group = ?", filter.JobGroup)
	}
	if filter.Status != "" {
		q = q.Where("j.status = ?", filter.Status)
	}
	if filter.InvokeTarget != "" {
		q = q.Where("j.invoke_target LIKE ?", "%"+filter.InvokeTarget+"%")
	}
	return q
}

func (g *GormJobDAO) List(ctx context.Context, filter JobFilter, offset, limit int, scope func(*gorm.DB) *gorm.DB) ([]SysJob, error) {
	var jobs []SysJob
	q := g.listQuery(ctx, filter, scope).Select("j.*").Order("j.job_id")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	err := q.Find(&jobs).Error
	return jobs, translate(err)
}

func (g *GormJobDAO) Count(ctx context.Context, filter JobFilter, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	var cnt int64
	err := g.listQuery(ctx, filter, scope).Count(&cnt).Error
	return cnt, translate(err)
}

func (g *GormJobDAO) DeleteByIds(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := g.db.WithContext(ctx).Where("job_id IN ?", ids).Delete(&SysJob{})
	return res.RowsAffected, translate(res.Error)
}
