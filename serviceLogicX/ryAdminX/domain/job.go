package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// JobStatusNormal 正常，已注册到调度队列
	JobStatusNormal = "0"
	// JobStatusPause 暂停
	JobStatusPause = "1"

	DefaultJobGroup      = "DEFAULT"
	DefaultMisfirePolicy = "3"
	DefaultConcurrent    = "1"

	// JobLogSuccess / JobLogFail 执行日志状态
	JobLogSuccess = "0"
	JobLogFail    = "1"
)

// SysJob 定时任务定义
type SysJob struct {
	JobId          int64      `json:"jobId"`
	JobName        string     `json:"jobName"`
	JobGroup       string     `json:"jobGroup"`
	InvokeTarget   string     `json:"invokeTarget"`
	CronExpression string     `json:"cronExpression"`
	MisfirePolicy  string     `json:"misfirePolicy"`
	Concurrent     string     `json:"concurrent"`
	Status         string     `json:"status"`
	CreateBy       string     `json:"createBy"`
	CreateTime     time.Time  `json:"createTime"`
	UpdateBy       string     `json:"updateBy"`
	UpdateTime     time.Time  `json:"updateTime"`
	Remark         string     `json:"remark"`
	NextValidTime  *time.Time `json:"nextValidTime,omitempty"`
}

// UniqueId 调度队列中的唯一标识，invokeTarget 变化即视为新身份
func (j SysJob) UniqueId() string {
	return fmt.Sprintf("%d:%s", j.JobId, j.InvokeTarget)
}

func (j SysJob) Running() bool {
	return j.Status == JobStatusNormal
}

// ApplyDefaults 新增时未填写的字段取默认值，新任务默认暂停
func (j *SysJob) ApplyDefaults() {
	if strings.TrimSpace(j.JobGroup) == "" {
		j.JobGroup = DefaultJobGroup
	}
	if j.MisfirePolicy == "" {
		j.MisfirePolicy = DefaultMisfirePolicy
	}
	if j.Concurrent == "" {
		j.Concurrent = DefaultConcurrent
	}
	if j.Status == "" {
		j.Status = JobStatusPause
	}
}

// JobFilter 任务列表查询条件，空值不过滤
type JobFilter struct {
	JobName      string `form:"jobName" json:"jobName"`
	JobGroup     string `form:"jobGroup" json:"jobGroup"`
	Status       string `form:"status" json:"status"`
	InvokeTarget string `form:"invokeTarget" json:"invokeTarget"`
}

// Page 分页，PageNum 从 1 开始，PageSize <= 0 表示不分页
type Page struct {
	PageNum  int `form:"pageNum" json:"pageNum"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

func (p Page) Offset() int {
	if p.PageNum <= 1 || p.PageSize <= 0 {
		return 0
	}
	return (p.PageNum - 1) * p.PageSize
}

// JobPayload 投递到调度队列的任务数据
type JobPayload struct {
	InvokeTarget string  `json:"invokeTarget"`
	JobInfo      JobInfo `json:"jobInfo"`
}

type JobInfo struct {
	JobId    int64  `json:"jobId"`
	JobName  string `json:"jobName"`
	JobGroup string `json:"jobGroup"`
	UniqueId string `json:"uniqueId,omitempty"`
}

// SysJobLog 任务执行日志，只追加
type SysJobLog struct {
	JobLogId      int64     `json:"jobLogId"`
	JobName       string    `json:"jobName"`
	JobGroup      string    `json:"jobGroup"`
	InvokeTarget  string    `json:"invokeTarget"`
	JobMessage    string    `json:"jobMessage"`
	Status        string    `json:"status"`
	ExceptionInfo string    `json:"exceptionInfo"`
	CreateTime    time.Time `json:"createTime"`
}

type JobLogFilter struct {
	JobName   string    `form:"jobName" json:"jobName"`
	JobGroup  string    `form:"jobGroup" json:"jobGroup"`
	Status    string    `form:"status" json:"status"`
	BeginTime time.Time `form:"beginTime" json:"beginTime" time_format:"2006-01-02"`
	EndTime   time.Time `form:"endTime" json:"endTime" time_format:"2006-01-02"`
}
