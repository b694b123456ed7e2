package gopsutilx

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// LoadLevel 系统负载等级
type LoadLevel uint

const (
	// LoadUnknown 未获取
	LoadUnknown LoadLevel = iota
	// LoadGood 良好：1分钟负载 < cpu 核数 且 内存 < 70%
	LoadGood
	// LoadWarn 警戒：介于良好与危险之间
	LoadWarn
	// LoadDanger 危险：1分钟负载 >= 2倍 cpu 核数 或 内存 >= 90%
	LoadDanger
)

func (l LoadLevel) String() string {
	switch l {
	case LoadGood:
		return "良好"
	case LoadWarn:
		return "警戒"
	case LoadDanger:
		return "危险"
	default:
		return "未知"
	}
}

// LoadProbe 负载探针，便于替换测试
type LoadProbe interface {
	Level(ctx context.Context) (LoadLevel, error)
}

type SystemLoad struct{}

func NewSystemLoad() *SystemLoad {
	return &SystemLoad{}
}

// Level 根据 cpu 平均负载与内存使用率给出综合等级，取两者中较差的一项
func (s *SystemLoad) Level(ctx context.Context) (LoadLevel, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadUnknown, fmt.Errorf("获取系统负载失败: %w", err)
	}
	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return LoadUnknown, fmt.Errorf("获取cpu核数失败: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return LoadUnknown, fmt.Errorf("获取内存使用失败: %w", err)
	}
	return Classify(avg.Load1, cores, vm.UsedPercent), nil
}

// Classify 负载分级规则
func Classify(load1 float64, cores int, memUsedPercent float64) LoadLevel {
	if cores <= 0 {
		cores = 1
	}
	cpuLevel := LoadWarn
	switch {
	case load1 < float64(cores):
		cpuLevel = LoadGood
	case load1 >= float64(cores)*2:
		cpuLevel = LoadDanger
	}
	memLevel := LoadWarn
	switch {
	case memUsedPercent < 70:
		memLevel = LoadGood
	case memUsedPercent >= 90:
		memLevel = LoadDanger
	}
	return max(cpuLevel, memLevel)
}

// Hostname 主机名，作为监控指标的实例标识
func (s *SystemLoad) Hostname(ctx context.Context) (string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	return info.Hostname, nil
}
