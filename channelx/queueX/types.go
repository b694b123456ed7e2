package queueX

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrQueueClosed 队列已关闭
var ErrQueueClosed = errors.New("queue closed, 队列已关闭")

// RepeatOpts 重复任务配置
//   - Cron: cron 表达式，支持可选秒位，如 "0/10 * * * * ?"、"0 0 2 * * ?"
//   - Key: 重复任务唯一 key，为空时由 jobId 与 cron 拼接
type RepeatOpts struct {
	Cron string `json:"cron"`
	Key  string `json:"key,omitempty"`
}

// JobOpts 入队配置
//   - Priority: 优先级，数值越小越先执行，0 表示普通任务
//   - RemoveOnComplete: 执行成功后删除任务记录
//   - RemoveOnFail: 失败记录保留条数，0 全部保留，小于 0 失败后立即删除
type JobOpts struct {
	JobId            string      `json:"jobId,omitempty"`
	Repeat           *RepeatOpts `json:"repeat,omitempty"`
	Priority         int         `json:"priority,omitempty"`
	RemoveOnComplete bool        `json:"removeOnComplete,omitempty"`
	RemoveOnFail     int         `json:"removeOnFail,omitempty"`
}

// RepeatableJob 已注册的重复任务
type RepeatableJob struct {
	Key  string `json:"key"`
	Id   string `json:"id"`
	Cron string `json:"cron"`
	Next int64  `json:"next"` // 下次触发时间，毫秒时间戳
}

// Job 投递给处理函数的任务实例
type Job struct {
	Id        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	Opts      JobOpts         `json:"opts"`
	Timestamp int64           `json:"timestamp"`
}

// Unmarshal 解析任务负载
func (j Job) Unmarshal(v any) error {
	return json.Unmarshal(j.Data, v)
}

// HandlerFunc 任务处理函数，返回 error 时队列记录失败
type HandlerFunc func(ctx context.Context, job Job) error

// Queue 持久化的重复任务队列抽象，负责 cron 触发与投递
type Queue interface {
	// Add 入队，opts.Repeat 不为空时注册为重复任务，返回任务 id（重复任务返回重复 key）
	Add(ctx context.Context, data any, opts JobOpts) (string, error)
	// GetRepeatableJobs 列出所有重复任务，按下次触发时间升序
	GetRepeatableJobs(ctx context.Context) ([]RepeatableJob, error)
	// RemoveRepeatable 按 cron + key 删除重复任务，不存在时不报错
	RemoveRepeatable(ctx context.Context, repeat RepeatOpts) error
	// RemoveRepeatableByKey 按重复 key 删除重复任务，不存在时不报错
	RemoveRepeatableByKey(ctx context.Context, key string) error
}

// Worker 消费端，Process 阻塞直到 ctx 结束或 Close
type Worker interface {
	Process(ctx context.Context, handler HandlerFunc) error
	Close() error
}
