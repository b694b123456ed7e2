// Package cronX 进程内重复任务队列，实现 queueX.Queue / queueX.Worker，单实例部署或开发环境替代 redis 队列。
// robfig cron 负责触发，触发后的任务经缓冲通道交给 Process 的 worker 执行；
// 任务失败只记录日志不向上抛，避免一个任务拖垮调度进程；可按系统负载自动暂停触发。
package cronX

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"gitee.com/hgg_test/ry_admin/channelx/queueX"
	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/syncX"
	"gitee.com/hgg_test/ry_admin/systemLoad/gopsutilx"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// ErrQueueFull 缓冲通道已满
var ErrQueueFull = errors.New("local queue full, 本地队列已满")

var (
	_ queueX.Queue  = (*LocalQueue)(nil)
	_ queueX.Worker = (*LocalQueue)(nil)
)

type entry struct {
	entryId cron.EntryID
	sched   cron.Schedule
	job     queueX.RepeatableJob
	data    json.RawMessage
	opts    queueX.JobOpts
}

type Option func(*LocalQueue)

// WithConcurrency worker 并发数，默认 1
func WithConcurrency(n int) Option {
	return func(q *LocalQueue) {
		if n > 0 {
			q.concurrency = n
		}
	}
}

// WithBuffer 待执行任务缓冲大小，默认 256
func WithBuffer(n int) Option {
	return func(q *LocalQueue) {
		if n > 0 {
			q.buffer = n
		}
	}
}

// WithLoadProbe 启用系统负载检查，危险负载时暂停触发，恢复后继续
func WithLoadProbe(probe gopsutilx.LoadProbe, refresh time.Duration) Option {
	return func(q *LocalQueue) {
		q.probe = probe
		if refresh > 0 {
			q.refreshInterval = refresh
		}
	}
}

type LocalQueue struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries *syncX.Map[string, entry]
	l       logx.Loggerx

	concurrency     int
	buffer          int
	probe           gopsutilx.LoadProbe
	refreshInterval time.Duration
	paused          atomic.Bool

	prioritized chan queueX.Job
	normal      chan queueX.Job
	closeOnce   sync.Once
	closeCh     chan struct{}
}

func NewLocalQueue(l logx.Loggerx, opts ...Option) *LocalQueue {
	q := &LocalQueue{
		cron:            cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		entries:         syncX.NewMap[string, entry](),
		l:               l.With(logx.String("queue", "local")),
		concurrency:     1,
		buffer:          256,
		refreshInterval: 5 * time.Second,
		closeCh:         make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.prioritized = make(chan queueX.Job, q.buffer)
	q.normal = make(chan queueX.Job, q.buffer)
	return q
}

func (q *LocalQueue) Add(ctx context.Context, data any, opts queueX.JobOpts) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("序列化任务数据失败: %w", err)
	}
	if opts.Repeat == nil {
		id := opts.JobId
		if id == "" {
			id = uuid.NewString()
		}
		return id, q.enqueue(queueX.Job{Id: id, Data: raw, Opts: opts, Timestamp: time.Now().UnixMilli()})
	}

	sched, err := queueX.ParseCron(opts.Repeat.Cron)
	if err != nil {
		return "", err
	}
	key := queueX.RepeatKey(opts.JobId, *opts.Repeat)

	q.mu.Lock()
	defer q.mu.Unlock()
	// 同 key 重复注册时先移除旧的触发器，保证只有一条
	if old, ok := q.entries.LoadAndDelete(key); ok {
		q.cron.Remove(old.entryId)
	}
	e := entry{
		sched: sched,
		job:   queueX.RepeatableJob{Key: key, Id: opts.JobId, Cron: opts.Repeat.Cron},
		data:  raw,
		opts:  opts,
	}
	e.entryId = q.cron.Schedule(sched, cron.FuncJob(q.fire(key)))
	q.entries.Store(key, e)
	q.l.Debug("注册重复任务", logx.String("key", key), logx.String("cron", opts.Repeat.Cron))
	return key, nil
}

// fire 触发时把重复任务展开为任务实例
func (q *LocalQueue) fire(key string) func() {
	return func() {
		e, ok := q.entries.Load(key)
		if !ok {
			return
		}
		if q.paused.Load() {
			q.l.Warn("系统负载过高，跳过本次触发", logx.String("key", key))
			return
		}
		opts := e.opts
		opts.Repeat = nil
		now := time.Now()
		job := queueX.Job{Id: fmt.Sprintf("repeat:%s:%d", key, now.UnixMilli()), Data: e.data, Opts: opts, Timestamp: now.UnixMilli()}
		if err := q.enqueue(job); err != nil {
			q.l.Error("重复任务入队失败", logx.String("key", key), logx.Error(err))
		}
	}
}

func (q *LocalQueue) enqueue(job queueX.Job) error {
	ch := q.normal
	if job.Opts.Priority > 0 {
		ch = q.prioritized
	}
	select {
	case <-q.closeCh:
		return queueX.ErrQueueClosed
	default:
	}
	select {
	case ch <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *LocalQueue) GetRepeatableJobs(ctx context.Context) ([]queueX.RepeatableJob, error) {
	now := time.Now()
	res := make([]queueX.RepeatableJob, 0, q.entries.Len())
	q.entries.Range(func(key string, e entry) bool {
		rj := e.job
		next := q.cron.Entry(e.entryId).Next
		if next.IsZero() { // 调度器未启动时按表达式推算
			next = e.sched.Next(now)
		}
		rj.Next = next.UnixMilli()
		res = append(res, rj)
		return true
	})
	sort.Slice(res, func(i, j int) bool { return res[i].Next < res[j].Next })
	return res, nil
}

func (q *LocalQueue) RemoveRepeatable(ctx context.Context, repeat queueX.RepeatOpts) error {
	return q.RemoveRepeatableByKey(ctx, queueX.RepeatKey("", repeat))
}

func (q *LocalQueue) RemoveRepeatableByKey(ctx context.Context, key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e, ok := q.entries.LoadAndDelete(key); ok {
		q.cron.Remove(e.entryId)
	}
	return nil
}

// Process 启动调度器与 worker，阻塞直到 ctx 结束或 Close
func (q *LocalQueue) Process(ctx context.Context, handler queueX.HandlerFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q.cron.Start()
	defer func() {
		<-q.cron.Stop().Done()
		q.l.Info("本地调度器已停止")
	}()

	var wg sync.WaitGroup
	if q.probe != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.watchLoad(ctx)
		}()
	}
	for i := 0; i < q.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.workLoop(ctx, handler)
		}()
	}
	select {
	case <-ctx.Done():
	case <-q.closeCh:
	}
	cancel()
	wg.Wait()
	return nil
}

func (q *LocalQueue) workLoop(ctx context.Context, handler queueX.HandlerFunc) {
	for {
		// 优先任务先执行
		select {
		case job := <-q.prioritized:
			q.handle(ctx, handler, job)
			continue
		default:
		}
		select {
		case <-ctx.Done():
			return
		case job := <-q.prioritized:
			q.handle(ctx, handler, job)
		case job := <-q.normal:
			q.handle(ctx, handler, job)
		}
	}
}

func (q *LocalQueue) handle(ctx context.Context, handler queueX.HandlerFunc, job queueX.Job) {
	defer func() {
		if r := recover(); r != nil {
			q.l.Error("任务处理 panic", logx.String("jobId", job.Id), logx.Any("panic", r))
		}
	}()
	if err := handler(ctx, job); err != nil {
		q.l.Warn("任务执行失败", logx.String("jobId", job.Id), logx.Error(err))
	}
}

func (q *LocalQueue) watchLoad(ctx context.Context) {
	ticker := time.NewTicker(q.refreshInterval)
	defer ticker.Stop()
	for {
		q.refreshLoad(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// refreshLoad 危险负载或获取失败时暂停触发
func (q *LocalQueue) refreshLoad(ctx context.Context) {
	lvl, err := q.probe.Level(ctx)
	if err != nil {
		q.l.Error("刷新系统负载失败", logx.Error(err))
	}
	pause := err != nil || lvl == gopsutilx.LoadDanger
	if q.paused.Swap(pause) != pause {
		if pause {
			q.l.Warn("当前系统负载异常，暂停定时触发", logx.String("level", lvl.String()))
		} else {
			q.l.Info("系统负载恢复正常，恢复定时触发", logx.String("level", lvl.String()))
		}
	}
}

// Paused 是否因系统负载暂停触发
func (q *LocalQueue) Paused() bool {
	return q.paused.Load()
}

func (q *LocalQueue) Close() error {
	q.closeOnce.Do(func() { close(q.closeCh) })
	return nil
}
