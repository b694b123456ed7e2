package service

import (
	"context"
	"errors"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/repository"
)

type JobLogService interface {
	SelectJobLogList(ctx context.Context, filter domain.JobLogFilter, page domain.Page) ([]domain.SysJobLog, error)
	CountJobLogList(ctx context.Context, filter domain.JobLogFilter) (int64, error)
	SelectJobLogById(ctx context.Context, jobLogId int64) (domain.SysJobLog, error)
	DeleteJobLogByIds(ctx context.Context, ids []int64) (int64, error)
	CleanJobLog(ctx context.Context) (int64, error)
}

type jobLogService struct {
	repo repository.JobLogRepository
}

func NewJobLogService(repo repository.JobLogRepository) JobLogService {
	return &jobLogService{repo: repo}
}

func (s *jobLogService) SelectJobLogList(ctx context.Context, filter domain.JobLogFilter, page domain.Page) ([]domain.SysJobLog, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *jobLogService) CountJobLogList(ctx context.Context, filter domain.JobLogFilter) (int64, error) {
	return s.repo.Count(ctx, filter)
}

func (s *jobLogService) SelectJobLogById(ctx context.Context, jobLogId int64) (domain.SysJobLog, error) {
	log, err := s.repo.FindById(ctx, jobLogId)
	if errors.Is(err, ErrDataRecordNotFound) {
		return domain.SysJobLog{}, errs.NewNotFound("任务日志", jobLogId)
	}
	return log, err
}

func (s *jobLogService) DeleteJobLogByIds(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.DeleteByIds(ctx, ids)
}

// CleanJobLog 清空全部执行日志
func (s *jobLogService) CleanJobLog(ctx context.Context) (int64, error) {
	return s.repo.Clean(ctx)
}
