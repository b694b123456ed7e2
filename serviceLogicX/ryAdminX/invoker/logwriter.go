package invoker

import (
	"context"
	"sync"
	"time"

	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
)

// LogSink 执行日志落地，repository.JobLogRepository 满足该接口
type LogSink interface {
	CreateBatch(ctx context.Context, logs []domain.SysJobLog) error
}

type LogWriterOption func(*LogWriter)

// WithBuffer 缓冲区大小，默认 1024，满了之后新日志直接丢弃
func WithBuffer(n int) LogWriterOption {
	return func(w *LogWriter) {
		if n > 0 {
			w.buffer = n
		}
	}
}

// WithBatch 单次写入条数与最长等待时间，默认 50 条 / 1 秒
func WithBatch(size int, interval time.Duration) LogWriterOption {
	return func(w *LogWriter) {
		if size > 0 {
			w.batchSize = size
		}
		if interval > 0 {
			w.interval = interval
		}
	}
}

// LogWriter 异步写执行日志，Append 不阻塞任务执行，写入失败只记日志
type LogWriter struct {
	sink LogSink
	l    logx.Loggerx

	buffer    int
	batchSize int
	interval  time.Duration

	mu     sync.RWMutex
	closed bool
	ch     chan domain.SysJobLog
	done   chan struct{}
}

func NewLogWriter(sink LogSink, l logx.Loggerx, opts ...LogWriterOption) *LogWriter {
	w := &LogWriter{
		sink:      sink,
		l:         l.With(logx.String("module", "jobLogWriter")),
		buffer:    1024,
		batchSize: 50,
		interval:  time.Second,
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	w.ch = make(chan domain.SysJobLog, w.buffer)
	go w.loop()
	return w
}

// Append 缓冲区满或已关闭时返回 false，日志内容输出到运行日志
func (w *LogWriter) Append(log domain.SysJobLog) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.fallback("日志写入器已关闭，丢弃执行日志", log)
		return false
	}
	select {
	case w.ch <- log:
		return true
	default:
		w.fallback("执行日志缓冲区已满，丢弃执行日志", log)
		return false
	}
}

// Close 停止接收并写完缓冲区中的日志，ctx 超时则放弃等待
func (w *LogWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.ch)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *LogWriter) loop() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	buf := make([]domain.SysJobLog, 0, w.batchSize)
	for {
		select {
		case log, ok := <-w.ch:
			if !ok {
				w.flush(buf)
				return
			}
			buf = append(buf, log)
			if len(buf) >= w.batchSize {
				w.flush(buf)
				buf = buf[:0]
			}
		case <-ticker.C:
			if len(buf) > 0 {
				w.flush(buf)
				buf = buf[:0]
			}
		}
	}
}

func (w *LogWriter) flush(buf []domain.SysJobLog) {
	if len(buf) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// sink 可能异步持有切片，传副本
	logs := append([]domain.SysJobLog(nil), buf...)
	if err := w.sink.CreateBatch(ctx, logs); err != nil {
		w.l.Error("写入执行日志失败", logx.Int("count", len(logs)), logx.Error(err))
		for _, log := range logs {
			w.fallback("未落库的执行日志", log)
		}
	}
}

func (w *LogWriter) fallback(msg string, log domain.SysJobLog) {
	w.l.Warn(msg,
		logx.String("jobName", log.JobName),
		logx.String("jobGroup", log.JobGroup),
		logx.String("invokeTarget", log.InvokeTarget),
		logx.String("status", log.Status),
		logx.String("jobMessage", log.JobMessage),
		logx.String("exceptionInfo", log.ExceptionInfo),
	)
}
