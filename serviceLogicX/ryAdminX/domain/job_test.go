package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSysJob_ApplyDefaults(t *testing.T) {
	j := SysJob{JobId: 3, InvokeTarget: "ryTask.ryParams('ry')"}
	j.ApplyDefaults()
	assert.Equal(t, SysJob{
		JobId:         3,
		InvokeTarget:  "ryTask.ryParams('ry')",
		JobGroup:      "DEFAULT",
		MisfirePolicy: "3",
		Concurrent:    "1",
		Status:        "1",
	}, j)
	assert.Equal(t, "3:ryTask.ryParams('ry')", j.UniqueId())
	assert.False(t, j.Running())

	j = SysJob{JobGroup: "SYSTEM", Status: "0", Concurrent: "0"}
	j.ApplyDefaults()
	assert.Equal(t, "SYSTEM", j.JobGroup)
	assert.Equal(t, "0", j.Concurrent)
	assert.True(t, j.Running())
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, Page{}.Offset())
	assert.Equal(t, 0, Page{PageNum: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, Page{PageNum: 3, PageSize: 10}.Offset())
}
