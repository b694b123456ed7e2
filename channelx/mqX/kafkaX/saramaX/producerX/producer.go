package producerX

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gitee.com/hgg_test/ry_admin/channelx/mqX"
	"github.com/IBM/sarama"
)

var ErrProducerClosed = errors.New("producer closed, 生产者已关闭")

var _ mqX.Producer = (*KafkaProducer)(nil)

// KafkaProducer 同步生产者，调用方自行决定是否异步【执行日志由日志写入协程批量提交】
type KafkaProducer struct {
	producer sarama.SyncProducer
	mu       sync.RWMutex
	closed   bool
}

// NewKafkaProducer 创建 Kafka 生产者
func NewKafkaProducer(addrs []string, config *ProducerConfig) (*KafkaProducer, error) {
	if config == nil {
		config = DefaultProducerConfig()
	}
	config.Validate()
	producer, err := sarama.NewSyncProducer(addrs, config.saramaConfig())
	if err != nil {
		return nil, fmt.Errorf("create sync producer: %w", err)
	}
	return NewKafkaProducerFromSync(producer), nil
}

// NewKafkaProducerFromSync 包装已有的 sarama.SyncProducer【测试时传 mocks.SyncProducer】
func NewKafkaProducerFromSync(producer sarama.SyncProducer) *KafkaProducer {
	return &KafkaProducer{producer: producer}
}

func (kp *KafkaProducer) Send(ctx context.Context, msg *mqX.Message) error {
	return kp.SendBatch(ctx, []*mqX.Message{msg})
}

func (kp *KafkaProducer) SendBatch(ctx context.Context, msgs []*mqX.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	kp.mu.RLock()
	defer kp.mu.RUnlock()
	if kp.closed {
		return ErrProducerClosed
	}

	pms := make([]*sarama.ProducerMessage, 0, len(msgs))
	for _, m := range msgs {
		pm := &sarama.ProducerMessage{Topic: m.Topic, Value: sarama.ByteEncoder(m.Value)}
		if len(m.Key) > 0 {
			pm.Key = sarama.ByteEncoder(m.Key)
		}
		pms = append(pms, pm)
	}
	if len(pms) == 1 {
		_, _, err := kp.producer.SendMessage(pms[0])
		return err
	}
	return kp.producer.SendMessages(pms)
}

// Close 关闭生产者，可重复调用
func (kp *KafkaProducer) Close() error {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	if kp.closed {
		return nil
	}
	kp.closed = true
	return kp.producer.Close()
}
