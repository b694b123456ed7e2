package cacheLocalRistrettox

import (
	"testing"
	"time"

	"gitee.com/hgg_test/ry_admin/DBx/cachex/cacheLocalx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleEntry struct {
	RoleId    int64
	DataScope string
}

func TestCacheLocalRistretto(t *testing.T) {
	ca, err := NewDefault[int64, []roleEntry](100)
	require.NoError(t, err)
	defer ca.Close()

	_, err = ca.Get(2)
	assert.ErrorIs(t, err, cacheLocalx.ErrCacheMiss)

	roles := []roleEntry{{RoleId: 2, DataScope: "2"}}
	require.NoError(t, ca.Set(2, roles, time.Minute, 0))
	ca.WaitSet()

	got, err := ca.Get(2)
	require.NoError(t, err)
	assert.Equal(t, roles, got)

	require.NoError(t, ca.Del(2))
	_, err = ca.Get(2)
	assert.ErrorIs(t, err, cacheLocalx.ErrCacheMiss)

	require.NoError(t, ca.Set(3, roles, time.Minute, 1))
	ca.WaitSet()
	ca.Clear()
	_, err = ca.Get(3)
	assert.ErrorIs(t, err, cacheLocalx.ErrCacheMiss)
}

func TestCacheLocalRistretto_TTL(t *testing.T) {
	ca, err := NewDefault[string, string](10)
	require.NoError(t, err)
	defer ca.Close()

	require.NoError(t, ca.Set("k", "v", 50*time.Millisecond, 1))
	ca.WaitSet()
	v, err := ca.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	assert.Eventually(t, func() bool {
		_, err := ca.Get("k")
		return err != nil
	}, 3*time.Second, 20*time.Millisecond)
}
