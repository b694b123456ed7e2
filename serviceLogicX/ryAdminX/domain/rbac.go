package domain

// DataScope 角色数据范围
type DataScope string

const (
	DataScopeAll          DataScope = "1" // 全部数据
	DataScopeCustom       DataScope = "2" // 自定义部门
	DataScopeDept         DataScope = "3" // 本部门
	DataScopeDeptAndChild DataScope = "4" // 本部门及以下
	DataScopeSelf         DataScope = "5" // 仅本人
)

const (
	RoleStatusNormal  = "0"
	RoleStatusDisable = "1"

	// SuperAdminId 超级管理员不做数据过滤
	SuperAdminId int64 = 1
)

type Role struct {
	RoleId    int64     `json:"roleId"`
	RoleName  string    `json:"roleName"`
	RoleKey   string    `json:"roleKey"`
	DataScope DataScope `json:"dataScope"`
	Status    string    `json:"status"`
}

func (r Role) Enabled() bool {
	return r.Status != RoleStatusDisable
}

type User struct {
	UserId   int64  `json:"userId"`
	DeptId   int64  `json:"deptId"`
	UserName string `json:"userName"`
	Status   string `json:"status"`
}

// Principal 当前请求的用户与角色
type Principal struct {
	UserId int64
	DeptId int64
	Roles  []Role
}

func IsAdmin(userId int64) bool {
	return userId == SuperAdminId
}
