package dataScope

import (
	"context"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/repository"
)

// Compile 计算数据权限条件，只依赖 principal 的角色与部门
//   - permission 预留给按权限字符匹配角色，目前不参与过滤
func Compile(principal *domain.Principal, aliases Aliases, permission string) Predicate {
	if principal == nil || domain.IsAdmin(principal.UserId) {
		return Unrestricted{}
	}
	if len(principal.Roles) == 0 {
		return DenyAll{}
	}

	var customIds []int64
	for _, r := range principal.Roles {
		if r.DataScope == domain.DataScopeCustom && r.Enabled() {
			customIds = append(customIds, r.RoleId)
		}
	}

	var items []Predicate
	seen := make(map[domain.DataScope]struct{}, 5)
	for _, r := range principal.Roles {
		if _, ok := seen[r.DataScope]; ok || !r.Enabled() {
			continue
		}
		switch r.DataScope {
		case domain.DataScopeAll:
			return Unrestricted{}
		case domain.DataScopeCustom:
			items = append(items, DeptInRoles{RoleIds: customIds})
		case domain.DataScopeDept:
			items = append(items, DeptEquals{DeptId: principal.DeptId})
		case domain.DataScopeDeptAndChild:
			items = append(items, DeptAndChild{DeptId: principal.DeptId})
		case domain.DataScopeSelf:
			// 没有用户表别名时无法表达仅本人
			if aliases.UserAlias != "" {
				items = append(items, UserEquals{UserId: principal.UserId})
			} else {
				items = append(items, DenyAll{})
			}
		}
		seen[r.DataScope] = struct{}{}
	}
	if len(items) == 0 {
		return DenyAll{}
	}
	return Or{Items: items}
}

// Compiler 先从目录查出用户与角色再计算条件
type Compiler struct {
	dir repository.Directory
}

func NewCompiler(dir repository.Directory) *Compiler {
	return &Compiler{dir: dir}
}

// ComputeForUser 目录查询失败时返回 *errs.DirectoryError
func (c *Compiler) ComputeForUser(ctx context.Context, userId int64, aliases Aliases, permission string) (Predicate, error) {
	p, err := c.Principal(ctx, userId)
	if err != nil {
		return nil, err
	}
	return Compile(p, aliases, permission), nil
}

// Principal 超级管理员不查角色
func (c *Compiler) Principal(ctx context.Context, userId int64) (*domain.Principal, error) {
	if domain.IsAdmin(userId) {
		return &domain.Principal{UserId: userId}, nil
	}
	u, err := c.dir.GetUser(ctx, userId)
	if err != nil {
		return nil, errs.NewDirectory(userId, err)
	}
	roles, err := c.dir.GetRolesForUser(ctx, userId)
	if err != nil {
		return nil, errs.NewDirectory(userId, err)
	}
	return &domain.Principal{UserId: u.UserId, DeptId: u.DeptId, Roles: roles}, nil
}
