package invoker

import (
	"context"
	"fmt"
	"time"

	"gitee.com/hgg_test/ry_admin/channelx/queueX"
	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/observationX/opentelemetryX"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	MsgSuccess = "任务执行成功"
	MsgFail    = "任务执行失败"

	// maxExceptionInfo 与 sys_job_log.exception_info 列宽一致，按字符计
	maxExceptionInfo = 2000
)

// Runner 执行任务并记录执行日志
type Runner struct {
	registry *Registry
	writer   *LogWriter
	tracer   trace.Tracer
	l        logx.Loggerx
	now      func() time.Time
}

func NewRunner(registry *Registry, writer *LogWriter, l logx.Loggerx) *Runner {
	return &Runner{
		registry: registry,
		writer:   writer,
		tracer:   opentelemetryX.Tracer("gitee.com/hgg_test/ry_admin/invoker"),
		l:        l.With(logx.String("module", "invoker")),
		now:      time.Now,
	}
}

// Handle 队列消费入口，执行失败时返回错误由队列记录失败
func (r *Runner) Handle(ctx context.Context, job queueX.Job) error {
	var p domain.JobPayload
	if err := job.Unmarshal(&p); err != nil {
		r.l.Error("任务数据解析失败", logx.String("id", job.Id), logx.Error(err))
		err = fmt.Errorf("解析任务数据失败: %w", err)
		r.writer.Append(domain.SysJobLog{
			JobName:       job.Id,
			JobGroup:      domain.DefaultJobGroup,
			JobMessage:    fmt.Sprintf("%s (耗时: 0ms)", MsgFail),
			Status:        domain.JobLogFail,
			ExceptionInfo: truncate(err.Error(), maxExceptionInfo),
			CreateTime:    r.now(),
		})
		return err
	}
	return r.execute(ctx, p)
}

// Run 直接执行，失败只记日志
func (r *Runner) Run(ctx context.Context, p domain.JobPayload) {
	_ = r.execute(ctx, p)
}

func (r *Runner) execute(ctx context.Context, p domain.JobPayload) error {
	ctx, span := r.tracer.Start(ctx, "job.execute", trace.WithAttributes(
		attribute.Int64("job.id", p.JobInfo.JobId),
		attribute.String("job.name", p.JobInfo.JobName),
		attribute.String("job.group", p.JobInfo.JobGroup),
		attribute.String("job.invoke_target", p.InvokeTarget),
	))
	defer span.End()

	l := r.l.With(logx.String("jobName", p.JobInfo.JobName), logx.String("invokeTarget", p.InvokeTarget))
	l.Info("开始执行任务")

	start := r.now()
	res, err := r.invoke(ctx, p.InvokeTarget)
	cost := r.now().Sub(start).Milliseconds()

	log := domain.SysJobLog{
		JobName:      p.JobInfo.JobName,
		JobGroup:     p.JobInfo.JobGroup,
		InvokeTarget: p.InvokeTarget,
		Status:       domain.JobLogSuccess,
		CreateTime:   start,
	}
	msg := res.Message
	if msg == "" {
		msg = MsgSuccess
	}
	if err != nil {
		msg = MsgFail
		log.Status = domain.JobLogFail
		log.ExceptionInfo = truncate(err.Error(), maxExceptionInfo)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.Error(MsgFail, logx.Int64("cost", cost), logx.Error(err))
	} else {
		l.Info(MsgSuccess, logx.Int64("cost", cost))
	}
	log.JobMessage = fmt.Sprintf("%s (耗时: %dms)", msg, cost)
	r.writer.Append(log)
	return err
}

// invoke 任务 panic 视为执行失败
func (r *Runner) invoke(ctx context.Context, target string) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("任务执行 panic: %v", rec)
		}
	}()
	return r.registry.Invoke(ctx, target)
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
