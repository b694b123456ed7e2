// Package scheduler 维护任务定义与调度队列中重复任务的一致性，每个任务最多一条重复任务
package scheduler

import (
	"context"
	"strconv"
	"strings"

	"gitee.com/hgg_test/ry_admin/channelx/queueX"
	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
)

const (
	// RunOncePriority 手动执行一次的任务优先于到期的重复任务
	RunOncePriority = 1
	// KeepFailed 失败记录保留条数
	KeepFailed = 100
)

// JobReconciler 注册 / 移除 / 立即执行
type JobReconciler interface {
	UniqueId(job domain.SysJob) string
	Register(ctx context.Context, job domain.SysJob) bool
	Remove(ctx context.Context, job domain.SysJob) error
	RunOnce(ctx context.Context, job domain.SysJob) error
}

type reconciler struct {
	queue queueX.Queue
	l     logx.Loggerx
}

func NewJobReconciler(queue queueX.Queue, l logx.Loggerx) JobReconciler {
	return &reconciler{queue: queue, l: l.With(logx.String("module", "scheduler"))}
}

func (r *reconciler) UniqueId(job domain.SysJob) string {
	return job.UniqueId()
}

func payloadOf(job domain.SysJob) domain.JobPayload {
	return domain.JobPayload{
		InvokeTarget: job.InvokeTarget,
		JobInfo: domain.JobInfo{
			JobId:    job.JobId,
			JobName:  job.JobName,
			JobGroup: job.JobGroup,
			UniqueId: job.UniqueId(),
		},
	}
}

// Register 先清理旧的重复任务再注册，重复调用结果不变；失败只记日志返回 false
func (r *reconciler) Register(ctx context.Context, job domain.SysJob) bool {
	uid := job.UniqueId()
	l := r.l.With(logx.Int64("jobId", job.JobId), logx.String("uniqueId", uid))

	if err := r.queue.RemoveRepeatable(ctx, queueX.RepeatOpts{Cron: job.CronExpression, Key: uid}); err != nil {
		l.Debug("移除同 key 重复任务失败，忽略", logx.Error(err))
	}

	// invokeTarget 修改过的旧注册，key 是 "jobId:旧invokeTarget"
	if list, err := r.queue.GetRepeatableJobs(ctx); err != nil {
		l.Debug("查询重复任务失败，跳过旧任务清理", logx.Error(err))
	} else if old, ok := firstWithJobId(list, job.JobId); ok {
		if err = r.queue.RemoveRepeatableByKey(ctx, old.Key); err != nil {
			l.Debug("移除旧重复任务失败，忽略", logx.String("key", old.Key), logx.Error(err))
		}
	}

	_, err := r.queue.Add(ctx, payloadOf(job), queueX.JobOpts{
		JobId:            uid,
		Repeat:           &queueX.RepeatOpts{Cron: job.CronExpression, Key: uid},
		RemoveOnComplete: true,
		RemoveOnFail:     KeepFailed,
	})
	if err != nil {
		l.Warn("注册定时任务失败", logx.String("cron", job.CronExpression), logx.Error(err))
		return false
	}
	l.Info("注册定时任务", logx.String("cron", job.CronExpression))
	return true
}

// firstWithJobId 按 "jobId:" 前缀匹配，避免 1: 命中 11:
func firstWithJobId(list []queueX.RepeatableJob, jobId int64) (queueX.RepeatableJob, bool) {
	prefix := strconv.FormatInt(jobId, 10) + ":"
	for _, rj := range list {
		if strings.HasPrefix(rj.Id, prefix) || strings.HasPrefix(rj.Key, prefix) {
			return rj, true
		}
	}
	return queueX.RepeatableJob{}, false
}

// Remove 优先按 uniqueId 匹配 key，其次按 cron 匹配早期注册的任务，都没有则不做处理
func (r *reconciler) Remove(ctx context.Context, job domain.SysJob) error {
	uid := job.UniqueId()
	list, err := r.queue.GetRepeatableJobs(ctx)
	if err != nil {
		return errs.NewBackend("查询重复任务", err)
	}

	target, ok := firstByKey(list, uid)
	if !ok {
		target, ok = firstByCron(list, job)
	}
	if !ok {
		keys := make([]string, 0, len(list))
		for _, rj := range list {
			keys = append(keys, rj.Key)
		}
		r.l.Warn("未找到要移除的定时任务", logx.String("uniqueId", uid), logx.Strings("keys", keys))
		return nil
	}

	if err = r.queue.RemoveRepeatableByKey(ctx, target.Key); err != nil {
		return errs.NewBackend("移除重复任务", err)
	}
	r.l.Info("移除定时任务", logx.String("uniqueId", uid), logx.String("key", target.Key))
	return nil
}

func firstByKey(list []queueX.RepeatableJob, uid string) (queueX.RepeatableJob, bool) {
	for _, rj := range list {
		if rj.Key == uid || strings.HasPrefix(rj.Key, uid+":") || strings.Contains(rj.Key, ":"+uid) {
			return rj, true
		}
	}
	return queueX.RepeatableJob{}, false
}

// firstByCron 只兜底早期注册的任务，"<jobId>:" 开头的 key 属于其他任务时跳过
func firstByCron(list []queueX.RepeatableJob, job domain.SysJob) (queueX.RepeatableJob, bool) {
	if job.CronExpression == "" {
		return queueX.RepeatableJob{}, false
	}
	for _, rj := range list {
		if rj.Cron != job.CronExpression {
			continue
		}
		if id, ok := keyJobId(rj.Key); ok && id != job.JobId {
			continue
		}
		return rj, true
	}
	return queueX.RepeatableJob{}, false
}

// keyJobId 解析 "<jobId>:<invokeTarget>" 形式 key 中的 jobId
func keyJobId(key string) (int64, bool) {
	idx := strings.IndexByte(key, ':')
	if idx <= 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(key[:idx], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// RunOnce 投递一次性任务，不影响重复任务
func (r *reconciler) RunOnce(ctx context.Context, job domain.SysJob) error {
	id, err := r.queue.Add(ctx, payloadOf(job), queueX.JobOpts{
		Priority:         RunOncePriority,
		RemoveOnComplete: true,
	})
	if err != nil {
		return errs.NewBackend("投递一次性任务", err)
	}
	r.l.Info("立即执行任务", logx.Int64("jobId", job.JobId), logx.String("id", id))
	return nil
}
