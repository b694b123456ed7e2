package mqX

import "context"

// Message 通用消息结构
//   - Key、Value 在处理程序中只读，需要保留时请复制
type Message struct {
	Topic string
	Key   []byte
	Value []byte
}

// Producer 生产者抽象接口
type Producer interface {
	Send(ctx context.Context, msg *Message) error
	// SendBatch 一次提交多条，部分失败时返回错误
	SendBatch(ctx context.Context, msgs []*Message) error
	Close() error
}
