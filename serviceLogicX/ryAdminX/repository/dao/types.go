package dao

import (
	"errors"
	"time"
)

var (
	ErrDataRecordNotFound error = errors.New("数据不存在, 查询为空")
	ErrDuplicateData      error = errors.New("数据已存在, 重复添加")
)

// SysJob 定时任务调度表
type SysJob struct {
	JobId          int64     `gorm:"column:job_id;primaryKey;autoIncrement"`
	JobName        string    `gorm:"column:job_name;type:varchar(64);size:64;not null;default:''"`
	JobGroup       string    `gorm:"column:job_group;type:varchar(64);size:64;not null;default:'DEFAULT'"`
	InvokeTarget   string    `gorm:"column:invoke_target;type:varchar(500);size:500;not null"`
	CronExpression string    `gorm:"column:cron_expression;type:varchar(255);size:255;default:''"`
	MisfirePolicy  string    `gorm:"column:misfire_policy;type:varchar(20);size:20;default:'3'"`
	Concurrent     string    `gorm:"column:concurrent;type:char(1);size:1;default:'1'"`
	Status         string    `gorm:"column:status;type:char(1);size:1;default:'0';index"`
	CreateBy       string    `gorm:"column:create_by;type:varchar(64);size:64;default:''"`
	CreateTime     time.Time `gorm:"column:create_time"`
	UpdateBy       string    `gorm:"column:update_by;type:varchar(64);size:64;default:''"`
	UpdateTime     time.Time `gorm:"column:update_time"`
	Remark         string    `gorm:"column:remark;type:varchar(500);size:500;default:''"`
}

func (SysJob) TableName() string {
	return "sys_job"
}

// SysJobLog 定时任务调度日志表
type SysJobLog struct {
	JobLogId      int64     `gorm:"column:job_log_id;primaryKey;autoIncrement"`
	JobName       string    `gorm:"column:job_name;type:varchar(64);size:64;not null"`
	JobGroup      string    `gorm:"column:job_group;type:varchar(64);size:64;not null"`
	InvokeTarget  string    `gorm:"column:invoke_target;type:varchar(500);size:500;not null"`
	JobMessage    string    `gorm:"column:job_message;type:varchar(500);size:500"`
	Status        string    `gorm:"column:status;type:char(1);size:1;default:'0';index"`
	ExceptionInfo string    `gorm:"column:exception_info;type:varchar(2000);size:2000;default:''"`
	CreateTime    time.Time `gorm:"column:create_time;index"`
}

func (SysJobLog) TableName() string {
	return "sys_job_log"
}

// SysUser 用户信息表，这里只关心数据权限用到的列
type SysUser struct {
	UserId   int64  `gorm:"column:user_id;primaryKey;autoIncrement"`
	DeptId   int64  `gorm:"column:dept_id;index"`
	UserName string `gorm:"column:user_name;type:varchar(30);size:30;not null;index"`
	Status   string `gorm:"column:status;type:char(1);size:1;default:'0'"`
	DelFlag  string `gorm:"column:del_flag;type:char(1);size:1;default:'0'"`
}

func (SysUser) TableName() string {
	return "sys_user"
}

// SysRole 角色信息表
type SysRole struct {
	RoleId    int64  `gorm:"column:role_id;primaryKey;autoIncrement"`
	RoleName  string `gorm:"column:role_name;type:varchar(30);size:30;not null"`
	RoleKey   string `gorm:"column:role_key;type:varchar(100);size:100;not null"`
	RoleSort  int    `gorm:"column:role_sort;default:0"`
	DataScope string `gorm:"column:data_scope;type:char(1);size:1;default:'1'"`
	Status    string `gorm:"column:status;type:char(1);size:1;not null;default:'0'"`
	DelFlag   string `gorm:"column:del_flag;type:char(1);size:1;default:'0'"`
}

func (SysRole) TableName() string {
	return "sys_role"
}

// SysDept 部门表，ancestors 为逗号分隔的祖级列表
type SysDept struct {
	DeptId    int64  `gorm:"column:dept_id;primaryKey;autoIncrement"`
	ParentId  int64  `gorm:"column:parent_id;default:0"`
	Ancestors string `gorm:"column:ancestors;type:varchar(50);size:50;default:''"`
	DeptName  string `gorm:"column:dept_name;type:varchar(30);size:30;default:''"`
	Status    string `gorm:"column:status;type:char(1);size:1;default:'0'"`
	DelFlag   string `gorm:"column:del_flag;type:char(1);size:1;default:'0'"`
}

func (SysDept) TableName() string {
	return "sys_dept"
}

// SysUserRole 用户和角色关联表
type SysUserRole struct {
	UserId int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	RoleId int64 `gorm:"column:role_id;primaryKey;autoIncrement:false"`
}

func (SysUserRole) TableName() string {
	return "sys_user_role"
}

// SysRoleDept 角色和部门关联表
type SysRoleDept struct {
	RoleId int64 `gorm:"column:role_id;primaryKey;autoIncrement:false"`
	DeptId int64 `gorm:"column:dept_id;primaryKey;autoIncrement:false"`
}

func (SysRoleDept) TableName() string {
	return "sys_role_dept"
}
