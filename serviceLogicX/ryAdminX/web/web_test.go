package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
	"gitee.com/hgg_test/ry_admin/webx/ginx/middleware/jwtx"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) SelectJobList(ctx context.Context, userId int64, filter domain.JobFilter, page domain.Page) ([]domain.SysJob, error) {
	args := m.Called(ctx, userId, filter, page)
	return args.Get(0).([]domain.SysJob), args.Error(1)
}

func (m *MockJobService) CountJobList(ctx context.Context, userId int64, filter domain.JobFilter) (int64, error) {
	args := m.Called(ctx, userId, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobService) SelectJobById(ctx context.Context, jobId int64) (domain.SysJob, error) {
	args := m.Called(ctx, jobId)
	return args.Get(0).(domain.SysJob), args.Error(1)
}

func (m *MockJobService) CheckCronExpressionIsValid(expr string) bool {
	return m.Called(expr).Bool(0)
}

func (m *MockJobService) InsertJob(ctx context.Context, job domain.SysJob, operator string) (int64, error) {
	args := m.Called(ctx, job, operator)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobService) UpdateJob(ctx context.Context, job domain.SysJob, operator string) (int64, error) {
	args := m.Called(ctx, job, operator)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobService) DeleteJobByIds(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobService) ChangeStatus(ctx context.Context, jobId int64, status string, operator string) (int64, error) {
	args := m.Called(ctx, jobId, status, operator)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobService) Run(ctx context.Context, jobId int64) error {
	return m.Called(ctx, jobId).Error(0)
}

func (m *MockJobService) InitJobs(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockJobLogService struct {
	mock.Mock
}

func (m *MockJobLogService) SelectJobLogList(ctx context.Context, filter domain.JobLogFilter, page domain.Page) ([]domain.SysJobLog, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]domain.SysJobLog), args.Error(1)
}

func (m *MockJobLogService) CountJobLogList(ctx context.Context, filter domain.JobLogFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobLogService) SelectJobLogById(ctx context.Context, jobLogId int64) (domain.SysJobLog, error) {
	args := m.Called(ctx, jobLogId)
	return args.Get(0).(domain.SysJobLog), args.Error(1)
}

func (m *MockJobLogService) DeleteJobLogByIds(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobLogService) CleanJobLog(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type resp struct {
	Code  int             `json:"code"`
	Msg   string          `json:"msg"`
	Data  json.RawMessage `json:"data"`
	Total *int64          `json:"total"`
}

func setup(t *testing.T) (*gin.Engine, *MockJobService, *MockJobLogService, string) {
	gin.SetMode(gin.TestMode)
	jwtHdl := jwtx.NewJwtHandler(jwtx.Config{JwtKey: []byte("ry-admin-test-key")})
	token, err := jwtHdl.SetToken(2, 105, "ry")
	require.NoError(t, err)

	jobSvc, logSvc := &MockJobService{}, &MockJobLogService{}
	server := gin.New()
	server.Use(jwtHdl.Build())
	NewJobWeb(jobSvc).Register(server)
	NewJobLogWeb(logSvc).Register(server)
	return server, jobSvc, logSvc, token
}

func do(t *testing.T, server *gin.Engine, method, path, body, token string) (int, resp) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	var r resp
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	}
	return rec.Code, r
}

func TestJobWeb_List(t *testing.T) {
	server, jobSvc, _, token := setup(t)
	filter := domain.JobFilter{JobName: "系统", Status: "0"}
	page := domain.Page{PageNum: 2, PageSize: 10}
	jobSvc.On("SelectJobList", mock.Anything, int64(2), filter, page).Return([]domain.SysJob{{JobId: 1}}, nil)
	jobSvc.On("CountJobList", mock.Anything, int64(2), filter).Return(int64(11), nil)

	code, r := do(t, server, http.MethodGet, "/monitor/job/list?jobName=%E7%B3%BB%E7%BB%9F&status=0&pageNum=2&pageSize=10", "", token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 200, r.Code)
	require.NotNil(t, r.Total)
	assert.Equal(t, int64(11), *r.Total)
	jobSvc.AssertExpectations(t)

	code, _ = do(t, server, http.MethodGet, "/monitor/job/list", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestJobWeb_AddAndEdit(t *testing.T) {
	server, jobSvc, _, token := setup(t)
	jobSvc.On("InsertJob", mock.Anything, mock.MatchedBy(func(j domain.SysJob) bool {
		return j.JobId == 0 && j.InvokeTarget == "ryTask.ryNoParams"
	}), "ry").Return(int64(1), nil)
	jobSvc.On("UpdateJob", mock.Anything, mock.MatchedBy(func(j domain.SysJob) bool { return j.JobId == 3 }), "ry").
		Return(int64(0), errs.NewValidation("cronExpression", "cron执行表达式不正确: x"))

	_, r := do(t, server, http.MethodPost, "/monitor/job",
		`{"jobId":9,"jobName":"a","invokeTarget":"ryTask.ryNoParams","cronExpression":"0/10 * * * * ?"}`, token)
	assert.Equal(t, 200, r.Code)

	_, r = do(t, server, http.MethodPut, "/monitor/job", `{"jobId":3,"cronExpression":"x"}`, token)
	assert.Equal(t, 400, r.Code)
	assert.Equal(t, "cron执行表达式不正确: x", r.Msg)

	_, r = do(t, server, http.MethodPut, "/monitor/job", `{"jobName":"a"}`, token)
	assert.Equal(t, 400, r.Code)
	jobSvc.AssertExpectations(t)
}

func TestJobWeb_StatusRunDelete(t *testing.T) {
	server, jobSvc, _, token := setup(t)
	jobSvc.On("ChangeStatus", mock.Anything, int64(1), "0", "ry").Return(int64(1), nil)
	jobSvc.On("Run", mock.Anything, int64(5)).Return(errs.NewNotFound("定时任务", 5))
	jobSvc.On("DeleteJobByIds", mock.Anything, []int64{1, 2, 3}).Return(int64(3), nil)
	jobSvc.On("SelectJobById", mock.Anything, int64(4)).Return(domain.SysJob{JobId: 4}, nil)
	jobSvc.On("CheckCronExpressionIsValid", "0/10 * * * * ?").Return(true)

	_, r := do(t, server, http.MethodPut, "/monitor/job/changeStatus", `{"jobId":1,"status":"0"}`, token)
	assert.Equal(t, 200, r.Code)

	_, r = do(t, server, http.MethodPut, "/monitor/job/run", `{"jobId":5}`, token)
	assert.Equal(t, 404, r.Code)

	_, r = do(t, server, http.MethodDelete, "/monitor/job/1,2,3", "", token)
	assert.Equal(t, 200, r.Code)
	assert.JSONEq(t, "3", string(r.Data))

	_, r = do(t, server, http.MethodDelete, "/monitor/job/a,b", "", token)
	assert.Equal(t, 400, r.Code)

	_, r = do(t, server, http.MethodGet, "/monitor/job/4", "", token)
	assert.Equal(t, 200, r.Code)

	_, r = do(t, server, http.MethodGet, "/monitor/job/checkCron?cronExpression=0%2F10+*+*+*+*+%3F", "", token)
	assert.JSONEq(t, "true", string(r.Data))
	jobSvc.AssertExpectations(t)
}

func TestJobLogWeb(t *testing.T) {
	server, _, logSvc, token := setup(t)
	logSvc.On("SelectJobLogList", mock.Anything, domain.JobLogFilter{Status: "1"}, domain.Page{}).Return([]domain.SysJobLog{}, nil)
	logSvc.On("CountJobLogList", mock.Anything, domain.JobLogFilter{Status: "1"}).Return(int64(0), nil)
	logSvc.On("CleanJobLog", mock.Anything).Return(int64(8), nil)
	logSvc.On("DeleteJobLogByIds", mock.Anything, []int64{7}).Return(int64(1), nil)
	logSvc.On("SelectJobLogById", mock.Anything, int64(7)).Return(domain.SysJobLog{}, errs.NewNotFound("任务日志", 7))

	_, r := do(t, server, http.MethodGet, "/monitor/jobLog/list?status=1", "", token)
	assert.Equal(t, 200, r.Code)

	_, r = do(t, server, http.MethodDelete, "/monitor/jobLog/clean", "", token)
	assert.JSONEq(t, "8", string(r.Data))

	_, r = do(t, server, http.MethodDelete, "/monitor/jobLog/7", "", token)
	assert.JSONEq(t, "1", string(r.Data))

	_, r = do(t, server, http.MethodGet, "/monitor/jobLog/7", "", token)
	assert.Equal(t, 404, r.Code)
	logSvc.AssertExpectations(t)
}
