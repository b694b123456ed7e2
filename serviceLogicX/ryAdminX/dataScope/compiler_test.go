package dataScope

import (
	"context"
	"errors"
	"testing"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func role(id int64, scope domain.DataScope, status string) domain.Role {
	return domain.Role{RoleId: id, DataScope: scope, Status: status}
}

func TestCompile(t *testing.T) {
	withUser := Aliases{DeptAlias: "d", UserAlias: "u"}
	testCases := []struct {
		name      string
		principal *domain.Principal
		aliases   Aliases
		want      Predicate
	}{
		{name: "未登录不过滤", principal: nil, want: Unrestricted{}},
		{
			name:      "超级管理员不过滤",
			principal: &domain.Principal{UserId: 1, Roles: []domain.Role{role(2, domain.DataScopeSelf, "0")}},
			want:      Unrestricted{},
		},
		{name: "没有角色", principal: &domain.Principal{UserId: 5, DeptId: 105}, want: DenyAll{}},
		{
			name:      "全部数据直接返回",
			principal: &domain.Principal{UserId: 5, DeptId: 105, Roles: []domain.Role{role(2, domain.DataScopeDept, "0"), role(3, domain.DataScopeAll, "0")}},
			want:      Unrestricted{},
		},
		{
			name:      "停用的全部数据角色不生效",
			principal: &domain.Principal{UserId: 5, DeptId: 105, Roles: []domain.Role{role(3, domain.DataScopeAll, "1")}},
			want:      DenyAll{},
		},
		{
			name: "多个自定义角色合并为一个子查询",
			principal: &domain.Principal{UserId: 5, DeptId: 105, Roles: []domain.Role{
				role(5, domain.DataScopeCustom, "0"),
				role(6, domain.DataScopeCustom, "1"),
				role(7, domain.DataScopeCustom, "0"),
			}},
			want: Or{Items: []Predicate{DeptInRoles{RoleIds: []int64{5, 7}}}},
		},
		{
			name: "同类范围只处理一次",
			principal: &domain.Principal{UserId: 5, DeptId: 105, Roles: []domain.Role{
				role(2, domain.DataScopeDept, "0"),
				role(3, domain.DataScopeDept, "0"),
				role(4, domain.DataScopeDeptAndChild, "0"),
			}},
			want: Or{Items: []Predicate{DeptEquals{DeptId: 105}, DeptAndChild{DeptId: 105}}},
		},
		{
			name:      "仅本人有用户别名",
			principal: &domain.Principal{UserId: 5, DeptId: 105, Roles: []domain.Role{role(2, domain.DataScopeSelf, "0")}},
			aliases:   withUser,
			want:      Or{Items: []Predicate{UserEquals{UserId: 5}}},
		},
		{
			name:      "仅本人没有用户别名",
			principal: &domain.Principal{UserId: 5, DeptId: 105, Roles: []domain.Role{role(2, domain.DataScopeSelf, "0")}},
			want:      Or{Items: []Predicate{DenyAll{}}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compile(tc.principal, tc.aliases, ""))
		})
	}
}

func TestCompile_Pure(t *testing.T) {
	p := &domain.Principal{UserId: 5, DeptId: 105, Roles: []domain.Role{
		role(2, domain.DataScopeDept, "0"),
		role(5, domain.DataScopeCustom, "0"),
	}}
	a := Aliases{DeptAlias: "d", UserAlias: "u"}
	assert.Equal(t, Compile(p, a, "monitor:job:list"), Compile(p, a, ""))
}

type fakeDirectory struct {
	users map[int64]domain.User
	roles map[int64][]domain.Role
	err   error
	calls int
}

func (f *fakeDirectory) GetRolesForUser(ctx context.Context, userId int64) ([]domain.Role, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.roles[userId], nil
}

func (f *fakeDirectory) GetUser(ctx context.Context, userId int64) (domain.User, error) {
	f.calls++
	if f.err != nil {
		return domain.User{}, f.err
	}
	return f.users[userId], nil
}

func TestCompiler_ComputeForUser(t *testing.T) {
	dir := &fakeDirectory{
		users: map[int64]domain.User{5: {UserId: 5, DeptId: 105}},
		roles: map[int64][]domain.Role{5: {role(2, domain.DataScopeDeptAndChild, "0")}},
	}
	c := NewCompiler(dir)

	p, err := c.ComputeForUser(context.Background(), 5, Aliases{DeptAlias: "d"}, "")
	require.NoError(t, err)
	assert.Equal(t, Or{Items: []Predicate{DeptAndChild{DeptId: 105}}}, p)

	// 超级管理员不查目录
	dir.calls = 0
	p, err = c.ComputeForUser(context.Background(), 1, Aliases{}, "")
	require.NoError(t, err)
	assert.True(t, IsUnrestricted(p))
	assert.Equal(t, 0, dir.calls)
}

func TestCompiler_DirectoryError(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewCompiler(&fakeDirectory{err: boom})

	_, err := c.ComputeForUser(context.Background(), 5, Aliases{}, "")
	var de *errs.DirectoryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, int64(5), de.UserId)
	assert.ErrorIs(t, err, boom)
}
