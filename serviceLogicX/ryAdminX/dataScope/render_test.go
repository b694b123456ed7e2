package dataScope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// dryRunDB 只生成 SQL，不连接数据库
func dryRunDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(mysql.New(mysql.Config{SkipInitializeWithVersion: true}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}

func toSQL(db *gorm.DB, p Predicate, a Aliases) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var ids []int64
		return tx.Table("sys_job j").Select("j.job_id").Scopes(Scope(p, a)).Find(&ids)
	})
}

func TestScope(t *testing.T) {
	db := dryRunDB(t)
	a := Aliases{DeptAlias: "d", UserAlias: "u"}
	testCases := []struct {
		name    string
		p       Predicate
		want    []string
		notWant string
	}{
		{name: "不过滤", p: Unrestricted{}, notWant: "WHERE"},
		{name: "拒绝全部", p: DenyAll{}, want: []string{"WHERE `d`.`dept_id` = 0"}},
		{
			name: "单个自定义角色",
			p:    Or{Items: []Predicate{DeptInRoles{RoleIds: []int64{5}}}},
			want: []string{"`d`.`dept_id` IN (SELECT dept_id FROM sys_role_dept WHERE role_id = 5)"},
		},
		{
			name: "多个自定义角色一个子查询",
			p:    Or{Items: []Predicate{DeptInRoles{RoleIds: []int64{5, 7}}}},
			want: []string{"`d`.`dept_id` IN (SELECT dept_id FROM sys_role_dept WHERE role_id IN (5,7))"},
		},
		{
			name: "本部门或仅本人",
			p:    Or{Items: []Predicate{DeptEquals{DeptId: 105}, UserEquals{UserId: 9}}},
			want: []string{"(`d`.`dept_id` = 105 OR `u`.`user_id` = 9)"},
		},
		{
			name: "本部门及以下",
			p:    Or{Items: []Predicate{DeptAndChild{DeptId: 101}}},
			want: []string{"`d`.`dept_id` IN (SELECT dept_id FROM sys_dept WHERE dept_id = 101 OR FIND_IN_SET(101, ancestors))"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql := toSQL(db, tc.p, a)
			for _, w := range tc.want {
				assert.Contains(t, sql, w)
			}
			if tc.notWant != "" {
				assert.NotContains(t, sql, tc.notWant)
			}
		})
	}
}

func TestScope_DefaultDeptAlias(t *testing.T) {
	sql := toSQL(dryRunDB(t), Or{Items: []Predicate{DeptEquals{DeptId: 3}}}, Aliases{})
	assert.Contains(t, sql, "`d`.`dept_id` = 3")
}

func TestRender(t *testing.T) {
	_, ok := Render(Unrestricted{}, Aliases{})
	assert.False(t, ok)
	_, ok = Render(nil, Aliases{})
	assert.False(t, ok)
	expr, ok := Render(DenyAll{}, Aliases{})
	assert.True(t, ok)
	assert.NotNil(t, expr)
}

func TestSQL(t *testing.T) {
	a := Aliases{DeptAlias: "d", UserAlias: "u"}
	testCases := []struct {
		name     string
		p        Predicate
		wantSQL  string
		wantArgs []any
	}{
		{name: "不过滤", p: Unrestricted{}},
		{name: "拒绝全部", p: DenyAll{}, wantSQL: " AND (d.dept_id = 0)"},
		{
			name:     "自定义角色",
			p:        Or{Items: []Predicate{DeptInRoles{RoleIds: []int64{5, 7}}}},
			wantSQL:  " AND (d.dept_id IN (SELECT dept_id FROM sys_role_dept WHERE role_id IN (?,?)))",
			wantArgs: []any{int64(5), int64(7)},
		},
		{
			name:     "多个条件",
			p:        Or{Items: []Predicate{DeptEquals{DeptId: 105}, DeptAndChild{DeptId: 105}, UserEquals{UserId: 9}}},
			wantSQL:  " AND (d.dept_id = ? OR d.dept_id IN (SELECT dept_id FROM sys_dept WHERE dept_id = ? OR FIND_IN_SET(?, ancestors)) OR u.user_id = ?)",
			wantArgs: []any{int64(105), int64(105), int64(105), int64(9)},
		},
		{
			name:    "仅本人无别名",
			p:       Or{Items: []Predicate{DenyAll{}}},
			wantSQL: " AND (d.dept_id = 0)",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := SQL(tc.p, a)
			assert.Equal(t, tc.wantSQL, sql)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}
