package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gitee.com/hgg_test/ry_admin/lock/redsyncx"
	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/observationX/opentelemetryX"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/config"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/invoker"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/service"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg    *config.Config
	server *gin.Engine
	queue  JobQueue
	leader *redsyncx.LockRedsync
	runner *invoker.Runner
	writer *invoker.LogWriter
	jobSvc service.JobService
	otel   opentelemetryX.ShutdownFn
	l      logx.Loggerx
}

func NewApp(cfg *config.Config, server *gin.Engine, queue JobQueue, leader *redsyncx.LockRedsync,
	runner *invoker.Runner, writer *invoker.LogWriter, jobSvc service.JobService,
	otel opentelemetryX.ShutdownFn, l logx.Loggerx) *App {
	return &App{cfg: cfg, server: server, queue: queue, leader: leader, runner: runner,
		writer: writer, jobSvc: jobSvc, otel: otel, l: l}
}

// Run 阻塞到 ctx 结束，退出前刷完执行日志
func (a *App) Run(ctx context.Context) error {
	if a.leader != nil {
		go a.watchLeader(a.leader.Start())
	}

	n, err := a.jobSvc.InitJobs(ctx)
	if err != nil {
		a.l.Error("加载定时任务失败", logx.Error(err))
	}
	a.l.Info("定时任务已加载", logx.Int("count", n))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      a.server,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		a.l.Info("http 服务启动", logx.String("addr", srv.Addr))
		if er := srv.ListenAndServe(); er != nil && !errors.Is(er, http.ErrServerClosed) {
			return er
		}
		return nil
	})
	workerDone := make(chan struct{})
	eg.Go(func() error {
		defer close(workerDone)
		return a.queue.Process(egCtx, a.runner.Handle)
	})
	eg.Go(func() error {
		<-egCtx.Done()
		return a.shutdown(srv, workerDone)
	})
	return eg.Wait()
}

func (a *App) shutdown(srv *http.Server, workerDone <-chan struct{}) error {
	a.l.Info("开始优雅退出")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var err error
	if er := srv.Shutdown(ctx); er != nil {
		err = errors.Join(err, fmt.Errorf("关闭 http 服务: %w", er))
	}
	if er := a.queue.Close(); er != nil {
		err = errors.Join(err, fmt.Errorf("关闭队列: %w", er))
	}
	// 等执行中的任务结束再关日志写入
	select {
	case <-workerDone:
	case <-ctx.Done():
		a.l.Warn("等待任务执行结束超时")
	}
	if er := a.writer.Close(ctx); er != nil {
		err = errors.Join(err, fmt.Errorf("刷出执行日志: %w", er))
	}
	if a.leader != nil {
		a.leader.Stop()
	}
	if er := a.otel(ctx); er != nil {
		err = errors.Join(err, fmt.Errorf("关闭链路追踪: %w", er))
	}
	if err != nil {
		a.l.Error("退出时出现错误", logx.Error(err))
		return err
	}
	a.l.Info("服务已退出")
	return nil
}

func (a *App) watchLeader(ch <-chan redsyncx.LockResult) {
	for res := range ch {
		if res.Error != nil {
			a.l.Warn("展开锁状态变化", logx.String("status", res.Status.String()), logx.Error(res.Error))
			continue
		}
		a.l.Info("展开锁状态变化", logx.String("status", res.Status.String()))
	}
}
