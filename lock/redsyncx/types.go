package redsyncx

// RedSyncIn 分布式锁抽象，多实例部署时只有持锁实例执行独占逻辑
type RedSyncIn interface {
	Start() <-chan LockResult
	Stop()
	IsLocked() bool
}
