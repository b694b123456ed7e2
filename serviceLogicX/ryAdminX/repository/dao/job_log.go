package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type JobLogFilter struct {
	JobName   string
	JobGroup  string
	Status    string
	BeginTime time.Time
	EndTime   time.Time
}

type JobLogDAO interface {
	Insert(ctx context.Context, log SysJobLog) (SysJobLog, error)
	// InsertBatch 日志写入协程批量落库
	InsertBatch(ctx context.Context, logs []SysJobLog) error
	FindById(ctx context.Context, id int64) (SysJobLog, error)
	List(ctx context.Context, filter JobLogFilter, offset, limit int) ([]SysJobLog, error)
	Count(ctx context.Context, filter JobLogFilter) (int64, error)
	DeleteByIds(ctx context.Context, ids []int64) (int64, error)
	// Clean 清空全部日志
	Clean(ctx context.Context) (int64, error)
}

type GormJobLogDAO struct {
	db *gorm.DB
}

func NewJobLogDAO(db *gorm.DB) JobLogDAO {
	return &GormJobLogDAO{db: db}
}

func (g *GormJobLogDAO) Insert(ctx context.Context, log SysJobLog) (SysJobLog, error) {
	if log.CreateTime.IsZero() {
		log.CreateTime = time.Now()
	}
	err := g.db.WithContext(ctx).Create(&log).Error
	return log, translate(err)
}

func (g *GormJobLogDAO) InsertBatch(ctx context.Context, logs []SysJobLog) error {
	if len(logs) == 0 {
		return nil
	}
	return translate(g.db.WithContext(ctx).CreateInBatches(logs, 100).Error)
}

func (g *GormJobLogDAO) FindById(ctx context.Context, id int64) (SysJobLog, error) {
	var log SysJobLog
	err := g.db.WithContext(ctx).Where("job_log_id = ?", id).First(&log).Error
	return log, translate(err)
}

func (g *GormJobLogDAO) query(ctx context.Context, filter JobLogFilter) *gorm.DB {
	q := g.db.WithContext(ctx).Model(&SysJobLog{})
	if filter.JobName != "" {
		q = q.Where("job_name LIKE ?", "%"+filter.JobName+"%")
	}
	if filter.JobGroup != "" {
		q = q.Where("job_group = ?", filter.JobGroup)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.BeginTime.IsZero() {
		q = q.Where("create_time >= ?", filter.BeginTime)
	}
	if !filter.EndTime.IsZero() {
		q = q.Where("create_time < ?", filter.EndTime)
	}
	return q
}

func (g *GormJobLogDAO) List(ctx context.Context, filter JobLogFilter, offset, limit int) ([]SysJobLog, error) {
	var logs []SysJobLog
	q := g.query(ctx, filter).Order("job_log_id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	err := q.Find(&logs).Error
	return logs, translate(err)
}

func (g *GormJobLogDAO) Count(ctx context.Context, filter JobLogFilter) (int64, error) {
	var cnt int64
	err := g.query(ctx, filter).Count(&cnt).Error
	return cnt, translate(err)
}

func (g *GormJobLogDAO) DeleteByIds(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := g.db.WithContext(ctx).Where("job_log_id IN ?", ids).Delete(&SysJobLog{})
	return res.RowsAffected, translate(res.Error)
}

func (g *GormJobLogDAO) Clean(ctx context.Context) (int64, error) {
	res := g.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&SysJobLog{})
	return res.RowsAffected, translate(res.Error)
}
