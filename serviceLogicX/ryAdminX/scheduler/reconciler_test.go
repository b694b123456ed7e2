package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"gitee.com/hgg_test/ry_admin/channelx/queueX"
	"gitee.com/hgg_test/ry_admin/channelx/queueX/redisQueuex"
	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memQueue 内存版 queueX.Queue
type memQueue struct {
	mu        sync.Mutex
	repeats   map[string]queueX.RepeatableJob
	added     []queueX.JobOpts
	data      []any
	addErr    error
	listErr   error
	removeErr error
}

func newMemQueue() *memQueue {
	return &memQueue{repeats: map[string]queueX.RepeatableJob{}}
}

func (m *memQueue) Add(ctx context.Context, data any, opts queueX.JobOpts) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return "", m.addErr
	}
	m.added = append(m.added, opts)
	m.data = append(m.data, data)
	if opts.Repeat == nil {
		return "once", nil
	}
	key := queueX.RepeatKey(opts.JobId, *opts.Repeat)
	m.repeats[key] = queueX.RepeatableJob{Key: key, Id: opts.JobId, Cron: opts.Repeat.Cron}
	return key, nil
}

func (m *memQueue) GetRepeatableJobs(ctx context.Context) ([]queueX.RepeatableJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	res := make([]queueX.RepeatableJob, 0, len(m.repeats))
	for _, rj := range m.repeats {
		res = append(res, rj)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Key < res[j].Key })
	return res, nil
}

func (m *memQueue) RemoveRepeatable(ctx context.Context, repeat queueX.RepeatOpts) error {
	return m.RemoveRepeatableByKey(ctx, queueX.RepeatKey("", repeat))
}

func (m *memQueue) RemoveRepeatableByKey(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.repeats, key)
	return nil
}

func (m *memQueue) keys() []string {
	list, _ := m.GetRepeatableJobs(context.Background())
	res := make([]string, 0, len(list))
	for _, rj := range list {
		res = append(res, rj.Key)
	}
	return res
}

func job(id int64, target, cron string) domain.SysJob {
	return domain.SysJob{JobId: id, JobName: "job", JobGroup: "DEFAULT", InvokeTarget: target, CronExpression: cron, Status: "0"}
}

func TestReconciler_UniqueId(t *testing.T) {
	r := NewJobReconciler(newMemQueue(), logx.NewNopLogger())
	assert.Equal(t, "7:ryTask.ryNoParams", r.UniqueId(job(7, "ryTask.ryNoParams", "0/10 * * * * ?")))
}

func TestReconciler_RegisterIdempotent(t *testing.T) {
	q := newMemQueue()
	r := NewJobReconciler(q, logx.NewNopLogger())
	j := job(1, "ryTask.ryNoParams", "0/10 * * * * ?")

	assert.True(t, r.Register(context.Background(), j))
	assert.True(t, r.Register(context.Background(), j))
	assert.Equal(t, []string{"1:ryTask.ryNoParams"}, q.keys())

	opts := q.added[len(q.added)-1]
	assert.Equal(t, "1:ryTask.ryNoParams", opts.JobId)
	assert.Equal(t, &queueX.RepeatOpts{Cron: "0/10 * * * * ?", Key: "1:ryTask.ryNoParams"}, opts.Repeat)
	assert.True(t, opts.RemoveOnComplete)
	assert.Equal(t, KeepFailed, opts.RemoveOnFail)

	p := q.data[len(q.data)-1].(domain.JobPayload)
	assert.Equal(t, "ryTask.ryNoParams", p.InvokeTarget)
	assert.Equal(t, domain.JobInfo{JobId: 1, JobName: "job", JobGroup: "DEFAULT", UniqueId: "1:ryTask.ryNoParams"}, p.JobInfo)
}

func TestReconciler_RegisterReplacesOldTarget(t *testing.T) {
	q := newMemQueue()
	r := NewJobReconciler(q, logx.NewNopLogger())

	require.True(t, r.Register(context.Background(), job(1, "ryTask.ryNoParams", "0/10 * * * * ?")))
	require.True(t, r.Register(context.Background(), job(11, "ryTask.ryNoParams", "0/10 * * * * ?")))
	require.True(t, r.Register(context.Background(), job(1, "ryTask.ryParams('ry')", "0/20 * * * * ?")))

	assert.Equal(t, []string{"11:ryTask.ryNoParams", "1:ryTask.ryParams('ry')"}, q.keys())
}

func TestReconciler_RegisterIgnoresCleanupErrors(t *testing.T) {
	q := newMemQueue()
	q.removeErr = errors.New("remove failed")
	q.listErr = errors.New("list failed")
	r := NewJobReconciler(q, logx.NewNopLogger())

	assert.True(t, r.Register(context.Background(), job(2, "ryTask.ryNoParams", "0/10 * * * * ?")))
}

func TestReconciler_RegisterFailure(t *testing.T) {
	q := newMemQueue()
	q.addErr = errors.New("redis down")
	r := NewJobReconciler(q, logx.NewNopLogger())

	assert.False(t, r.Register(context.Background(), job(2, "ryTask.ryNoParams", "0/10 * * * * ?")))
}

func TestReconciler_Remove(t *testing.T) {
	testCases := []struct {
		name     string
		existing map[string]queueX.RepeatableJob
		job      domain.SysJob
		wantKeys []string
	}{
		{
			name: "按 uniqueId 移除",
			existing: map[string]queueX.RepeatableJob{
				"1:ryTask.ryNoParams":  {Key: "1:ryTask.ryNoParams", Id: "1:ryTask.ryNoParams", Cron: "0/10 * * * * ?"},
				"11:ryTask.ryNoParams": {Key: "11:ryTask.ryNoParams", Id: "11:ryTask.ryNoParams", Cron: "0/10 * * * * ?"},
			},
			job:      job(1, "ryTask.ryNoParams", "0/10 * * * * ?"),
			wantKeys: []string{"11:ryTask.ryNoParams"},
		},
		{
			name: "早期注册按 cron 兜底",
			existing: map[string]queueX.RepeatableJob{
				"ryTask:legacy::0 0 2 * * ?": {Key: "ryTask:legacy::0 0 2 * * ?", Cron: "0 0 2 * * ?"},
				"5:ryTask.ryNoParams":        {Key: "5:ryTask.ryNoParams", Cron: "0/10 * * * * ?"},
			},
			job:      job(3, "ryTask.ryParams('ry')", "0 0 2 * * ?"),
			wantKeys: []string{"5:ryTask.ryNoParams"},
		},
		{
			name: "cron 兜底不误删其他任务",
			existing: map[string]queueX.RepeatableJob{
				"1:ryTask.ryNoParams": {Key: "1:ryTask.ryNoParams", Id: "1:ryTask.ryNoParams", Cron: "0/10 * * * * ?"},
			},
			job:      job(2, "ryTask.ryParams('ry')", "0/10 * * * * ?"),
			wantKeys: []string{"1:ryTask.ryNoParams"},
		},
		{
			name: "没有匹配不处理",
			existing: map[string]queueX.RepeatableJob{
				"5:ryTask.ryNoParams": {Key: "5:ryTask.ryNoParams", Cron: "0/10 * * * * ?"},
			},
			job:      job(3, "ryTask.ryParams('ry')", "0 0 2 * * ?"),
			wantKeys: []string{"5:ryTask.ryNoParams"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := newMemQueue()
			q.repeats = tc.existing
			r := NewJobReconciler(q, logx.NewNopLogger())

			require.NoError(t, r.Remove(context.Background(), tc.job))
			assert.Equal(t, tc.wantKeys, q.keys())
		})
	}
}

func TestReconciler_RemoveBackendError(t *testing.T) {
	q := newMemQueue()
	q.listErr = errors.New("redis down")
	r := NewJobReconciler(q, logx.NewNopLogger())

	err := r.Remove(context.Background(), job(1, "ryTask.ryNoParams", "0/10 * * * * ?"))
	var be *errs.BackendError
	assert.ErrorAs(t, err, &be)
}

func TestReconciler_RunOnce(t *testing.T) {
	q := newMemQueue()
	r := NewJobReconciler(q, logx.NewNopLogger())

	require.NoError(t, r.RunOnce(context.Background(), job(4, "ryTask.ryNoParams", "0/10 * * * * ?")))
	require.Len(t, q.added, 1)
	assert.Nil(t, q.added[0].Repeat)
	assert.Equal(t, RunOncePriority, q.added[0].Priority)
	assert.True(t, q.added[0].RemoveOnComplete)
	assert.Empty(t, q.keys())

	q.addErr = errors.New("redis down")
	var be *errs.BackendError
	assert.ErrorAs(t, r.RunOnce(context.Background(), job(4, "ryTask.ryNoParams", "")), &be)
}

func TestReconciler_RedisQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	q := redisQueuex.NewRedisQueue(client, "ryTask", logx.NewNopLogger())
	r := NewJobReconciler(q, logx.NewNopLogger())
	ctx := context.Background()

	require.True(t, r.Register(ctx, job(1, "ryTask.ryNoParams", "0/10 * * * * ?")))
	require.True(t, r.Register(ctx, job(1, "ryTask.ryParams('ry')", "0/10 * * * * ?")))
	list, err := q.GetRepeatableJobs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1:ryTask.ryParams('ry')", list[0].Key)

	require.NoError(t, r.Remove(ctx, job(1, "ryTask.ryParams('ry')", "0/10 * * * * ?")))
	list, err = q.GetRepeatableJobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
