package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gitee.com/hgg_test/ry_admin/channelx/queueX"
	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/dataScope"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/repository"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/scheduler"
	"gorm.io/gorm"
)

var (
	ErrDataRecordNotFound error = repository.ErrDataRecordNotFound
	ErrDuplicateData      error = repository.ErrDuplicateData
)

const (
	jobResource = "定时任务"
	// JobListPermission 任务列表的权限字符
	JobListPermission = "monitor:job:list"
	defaultOperator   = "system"
)

// jobAliases 任务列表按创建人所在部门过滤，见 dao.JobDAO.List
var jobAliases = dataScope.Aliases{DeptAlias: "d", UserAlias: "u"}

type JobService interface {
	// SelectJobList userId 为 0 时不做数据权限过滤
	SelectJobList(ctx context.Context, userId int64, filter domain.JobFilter, page domain.Page) ([]domain.SysJob, error)
	CountJobList(ctx context.Context, userId int64, filter domain.JobFilter) (int64, error)
	SelectJobById(ctx context.Context, jobId int64) (domain.SysJob, error)
	CheckCronExpressionIsValid(expr string) bool

	InsertJob(ctx context.Context, job domain.SysJob, operator string) (int64, error)
	UpdateJob(ctx context.Context, job domain.SysJob, operator string) (int64, error)
	DeleteJobByIds(ctx context.Context, ids []int64) (int64, error)
	ChangeStatus(ctx context.Context, jobId int64, status string, operator string) (int64, error)
	Run(ctx context.Context, jobId int64) error
	InitJobs(ctx context.Context) (int, error)
}

type jobService struct {
	repo       repository.JobRepository
	reconciler scheduler.JobReconciler
	compiler   *dataScope.Compiler
	l          logx.Loggerx
	now        func() time.Time
}

// NewJobService compiler 为 nil 时列表查询不做数据权限过滤
func NewJobService(repo repository.JobRepository, reconciler scheduler.JobReconciler, compiler *dataScope.Compiler, l logx.Loggerx) JobService {
	return &jobService{
		repo:       repo,
		reconciler: reconciler,
		compiler:   compiler,
		l:          l.With(logx.String("module", "jobService")),
		now:        time.Now,
	}
}

func (s *jobService) scope(ctx context.Context, userId int64) (func(*gorm.DB) *gorm.DB, error) {
	if s.compiler == nil || userId == 0 {
		return nil, nil
	}
	p, err := s.compiler.ComputeForUser(ctx, userId, jobAliases, JobListPermission)
	if err != nil {
		return nil, err
	}
	if dataScope.IsUnrestricted(p) {
		return nil, nil
	}
	return dataScope.Scope(p, jobAliases), nil
}

func (s *jobService) SelectJobList(ctx context.Context, userId int64, filter domain.JobFilter, page domain.Page) ([]domain.SysJob, error) {
	scope, err := s.scope(ctx, userId)
	if err != nil {
		return nil, err
	}
	jobs, err := s.repo.List(ctx, filter, page, scope)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range jobs {
		if next := queueX.NextTime(jobs[i].CronExpression, now); !next.IsZero() {
			jobs[i].NextValidTime = &next
		}
	}
	return jobs, nil
}

func (s *jobService) CountJobList(ctx context.Context, userId int64, filter domain.JobFilter) (int64, error) {
	scope, err := s.scope(ctx, userId)
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, filter, scope)
}

func (s *jobService) SelectJobById(ctx context.Context, jobId int64) (domain.SysJob, error) {
	job, err := s.repo.FindById(ctx, jobId)
	if errors.Is(err, ErrDataRecordNotFound) {
		return domain.SysJob{}, errs.NewNotFound(jobResource, jobId)
	}
	return job, err
}

func (s *jobService) CheckCronExpressionIsValid(expr string) bool {
	return queueX.IsValidCron(expr)
}

func validateJob(job domain.SysJob) error {
	switch {
	case strings.TrimSpace(job.JobName) == "":
		return errs.NewValidation("jobName", "任务名称不能为空")
	case strings.TrimSpace(job.InvokeTarget) == "":
		return errs.NewValidation("invokeTarget", "调用目标字符串不能为空")
	case strings.TrimSpace(job.CronExpression) == "":
		return errs.NewValidation("cronExpression", "cron执行表达式不能为空")
	}
	return validateCron(job.CronExpression)
}

func validateCron(expr string) error {
	if _, err := queueX.ParseCron(expr); err != nil {
		return errs.NewValidation("cronExpression", "cron执行表达式不正确: "+expr)
	}
	return nil
}

func operatorOr(op string) string {
	if op == "" {
		return defaultOperator
	}
	return op
}

// InsertJob 新增后状态为正常时注册到调度队列，注册失败不影响新增结果
func (s *jobService) InsertJob(ctx context.Context, job domain.SysJob, operator string) (int64, error) {
	if err := validateJob(job); err != nil {
		return 0, err
	}
	job.ApplyDefaults()
	job.CreateBy = operatorOr(operator)
	created, err := s.repo.Create(ctx, job)
	if err != nil {
		return 0, err
	}
	if created.Running() {
		s.reconciler.Register(ctx, created)
	}
	return 1, nil
}

// UpdateJob 先移除旧的重复任务，状态为正常时按新定义重新注册
func (s *jobService) UpdateJob(ctx context.Context, job domain.SysJob, operator string) (int64, error) {
	old, err := s.SelectJobById(ctx, job.JobId)
	if err != nil {
		return 0, err
	}
	if job.CronExpression != "" {
		if err = validateCron(job.CronExpression); err != nil {
			return 0, err
		}
	}
	job.UpdateBy = operatorOr(operator)
	affected, err := s.repo.Update(ctx, job)
	if err != nil || affected == 0 {
		return affected, err
	}

	if err = s.reconciler.Remove(ctx, old); err != nil {
		s.l.Warn("移除旧定时任务失败", logx.Int64("jobId", old.JobId), logx.Error(err))
	}
	current, err := s.repo.FindById(ctx, job.JobId)
	if err != nil {
		s.l.Error("更新后读取定时任务失败", logx.Int64("jobId", job.JobId), logx.Error(err))
		return affected, nil
	}
	if current.Running() {
		s.reconciler.Register(ctx, current)
	}
	return affected, nil
}

// DeleteJobByIds 不存在的 id 跳过，重复任务移除失败不影响删除
func (s *jobService) DeleteJobByIds(ctx context.Context, ids []int64) (int64, error) {
	for _, id := range ids {
		job, err := s.repo.FindById(ctx, id)
		if err != nil {
			if !errors.Is(err, ErrDataRecordNotFound) {
				s.l.Warn("删除前读取定时任务失败", logx.Int64("jobId", id), logx.Error(err))
			}
			continue
		}
		if err = s.reconciler.Remove(ctx, job); err != nil {
			s.l.Warn("移除定时任务失败", logx.Int64("jobId", id), logx.Error(err))
		}
	}
	return s.repo.DeleteByIds(ctx, ids)
}

// ChangeStatus 0 恢复，1 暂停
func (s *jobService) ChangeStatus(ctx context.Context, jobId int64, status string, operator string) (int64, error) {
	if status != domain.JobStatusNormal && status != domain.JobStatusPause {
		return 0, errs.NewValidation("status", "任务状态不正确: "+status)
	}
	job, err := s.SelectJobById(ctx, jobId)
	if err != nil {
		return 0, err
	}
	job.Status = status
	job.UpdateBy = operatorOr(operator)
	affected, err := s.repo.Update(ctx, job)
	if err != nil || affected == 0 {
		return affected, err
	}
	if job.Running() {
		s.reconciler.Register(ctx, job)
		return affected, nil
	}
	if err = s.reconciler.Remove(ctx, job); err != nil {
		s.l.Warn("暂停定时任务失败", logx.Int64("jobId", jobId), logx.Error(err))
	}
	return affected, nil
}

// Run 立即执行一次，与任务状态无关
func (s *jobService) Run(ctx context.Context, jobId int64) error {
	job, err := s.SelectJobById(ctx, jobId)
	if err != nil {
		return err
	}
	return s.reconciler.RunOnce(ctx, job)
}

// InitJobs 启动时注册所有正常状态的任务，单个失败不中断，返回成功数
func (s *jobService) InitJobs(ctx context.Context) (int, error) {
	jobs, err := s.repo.FindRunning(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, job := range jobs {
		if s.reconciler.Register(ctx, job) {
			count++
		}
	}
	s.l.Info("定时任务初始化完成", logx.Int("count", count), logx.Int("total", len(jobs)))
	return count, nil
}
