package dataScope

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	roleDeptSQL     = "? IN (SELECT dept_id FROM sys_role_dept WHERE role_id IN ?)"
	roleDeptOneSQL  = "? IN (SELECT dept_id FROM sys_role_dept WHERE role_id = ?)"
	deptAndChildSQL = "? IN (SELECT dept_id FROM sys_dept WHERE dept_id = ? OR FIND_IN_SET(?, ancestors))"
)

// Render 渲染为带绑定参数的 gorm 表达式，不过滤时第二个返回值为 false
func Render(p Predicate, a Aliases) (clause.Expression, bool) {
	if IsUnrestricted(p) {
		return nil, false
	}
	return render(p, a), true
}

func render(p Predicate, a Aliases) clause.Expr {
	deptCol := clause.Column{Table: a.dept(), Name: "dept_id"}
	switch v := p.(type) {
	case DeptEquals:
		return clause.Expr{SQL: "? = ?", Vars: []any{deptCol, v.DeptId}}
	case DeptInRoles:
		if len(v.RoleIds) == 1 {
			return clause.Expr{SQL: roleDeptOneSQL, Vars: []any{deptCol, v.RoleIds[0]}}
		}
		return clause.Expr{SQL: roleDeptSQL, Vars: []any{deptCol, v.RoleIds}}
	case DeptAndChild:
		return clause.Expr{SQL: deptAndChildSQL, Vars: []any{deptCol, v.DeptId, v.DeptId}}
	case UserEquals:
		return clause.Expr{SQL: "? = ?", Vars: []any{clause.Column{Table: a.UserAlias, Name: "user_id"}, v.UserId}}
	case Or:
		if len(v.Items) == 0 {
			return render(DenyAll{}, a)
		}
		vars := make([]any, 0, len(v.Items))
		for _, it := range v.Items {
			vars = append(vars, render(it, a))
		}
		return clause.Expr{SQL: "(" + strings.TrimSuffix(strings.Repeat("? OR ", len(vars)), " OR ") + ")", Vars: vars}
	default:
		// DenyAll 及未知条件一律不返回数据
		return clause.Expr{SQL: "? = 0", Vars: []any{deptCol}}
	}
}

// Scope 作为 gorm Scopes 使用，不过滤时原样返回
//
//	db.Table("sys_job j").Scopes(dataScope.Scope(p, dataScope.Aliases{DeptAlias: "d", UserAlias: "u"}))
func Scope(p Predicate, a Aliases) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		expr, ok := Render(p, a)
		if !ok {
			return db
		}
		return db.Where(expr)
	}
}

// SQL 拼接用的字符串形式 " AND (...)"，参数以 ? 占位；不过滤时返回空串
func SQL(p Predicate, a Aliases) (string, []any) {
	if IsUnrestricted(p) {
		return "", nil
	}
	var args []any
	items := []Predicate{p}
	if or, ok := p.(Or); ok && len(or.Items) > 0 {
		items = or.Items
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		s, as := sqlOf(it, a)
		parts = append(parts, s)
		args = append(args, as...)
	}
	return " AND (" + strings.Join(parts, " OR ") + ")", args
}

func sqlOf(p Predicate, a Aliases) (string, []any) {
	dept := a.dept() + ".dept_id"
	switch v := p.(type) {
	case DeptEquals:
		return dept + " = ?", []any{v.DeptId}
	case DeptInRoles:
		if len(v.RoleIds) == 1 {
			return fmt.Sprintf("%s IN (SELECT dept_id FROM sys_role_dept WHERE role_id = ?)", dept), []any{v.RoleIds[0]}
		}
		marks := strings.TrimSuffix(strings.Repeat("?,", len(v.RoleIds)), ",")
		args := make([]any, 0, len(v.RoleIds))
		for _, id := range v.RoleIds {
			args = append(args, id)
		}
		return fmt.Sprintf("%s IN (SELECT dept_id FROM sys_role_dept WHERE role_id IN (%s))", dept, marks), args
	case DeptAndChild:
		return fmt.Sprintf("%s IN (SELECT dept_id FROM sys_dept WHERE dept_id = ? OR FIND_IN_SET(?, ancestors))", dept), []any{v.DeptId, v.DeptId}
	case UserEquals:
		return a.UserAlias + ".user_id = ?", []any{v.UserId}
	case Or:
		s, args := SQL(v, a)
		return strings.TrimPrefix(s, " AND "), args
	default:
		return dept + " = 0", nil
	}
}
