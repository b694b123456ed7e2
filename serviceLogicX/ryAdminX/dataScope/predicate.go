// Package dataScope 按用户角色计算行级数据权限条件
//
// Compile 只产出条件树，不拼接 SQL；Render / Scope 把条件树渲染成 gorm 表达式，
// SQL 保留字符串形式给需要拼接 where 片段的调用方。
package dataScope

type Kind int

const (
	KindUnrestricted Kind = iota
	KindDenyAll
	KindDeptEquals
	KindDeptInRoles
	KindDeptAndChild
	KindUserEquals
	KindOr
)

// Predicate 数据权限条件树
type Predicate interface {
	Kind() Kind
}

// Unrestricted 不过滤
type Unrestricted struct{}

// DenyAll 不返回任何数据，渲染为 dept_id = 0
type DenyAll struct{}

// DeptEquals 本部门
type DeptEquals struct{ DeptId int64 }

// DeptInRoles 自定义数据权限，角色授权的部门
type DeptInRoles struct{ RoleIds []int64 }

// DeptAndChild 本部门及以下
type DeptAndChild struct{ DeptId int64 }

// UserEquals 仅本人
type UserEquals struct{ UserId int64 }

// Or 任一子条件成立
type Or struct{ Items []Predicate }

func (Unrestricted) Kind() Kind { return KindUnrestricted }
func (DenyAll) Kind() Kind      { return KindDenyAll }
func (DeptEquals) Kind() Kind   { return KindDeptEquals }
func (DeptInRoles) Kind() Kind  { return KindDeptInRoles }
func (DeptAndChild) Kind() Kind { return KindDeptAndChild }
func (UserEquals) Kind() Kind   { return KindUserEquals }
func (Or) Kind() Kind           { return KindOr }

// IsUnrestricted 调用方据此跳过过滤
func IsUnrestricted(p Predicate) bool {
	return p == nil || p.Kind() == KindUnrestricted
}

// Aliases 目标查询中部门表、用户表的别名，UserAlias 可为空
type Aliases struct {
	DeptAlias string
	UserAlias string
}

func (a Aliases) dept() string {
	if a.DeptAlias == "" {
		return "d"
	}
	return a.DeptAlias
}
