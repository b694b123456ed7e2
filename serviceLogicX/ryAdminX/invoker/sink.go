package invoker

import (
	"context"
	"encoding/json"
	"errors"

	"gitee.com/hgg_test/ry_admin/channelx/mqX"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
)

// KafkaLogSink 执行日志投递到 kafka，key 为任务名
type KafkaLogSink struct {
	producer mqX.Producer
	topic    string
}

func NewKafkaLogSink(producer mqX.Producer, topic string) *KafkaLogSink {
	return &KafkaLogSink{producer: producer, topic: topic}
}

func (s *KafkaLogSink) CreateBatch(ctx context.Context, logs []domain.SysJobLog) error {
	msgs := make([]*mqX.Message, 0, len(logs))
	for _, log := range logs {
		val, err := json.Marshal(log)
		if err != nil {
			return err
		}
		msgs = append(msgs, &mqX.Message{Topic: s.topic, Key: []byte(log.JobName), Value: val})
	}
	return s.producer.SendBatch(ctx, msgs)
}

type multiSink []LogSink

// MultiSink 依次写入全部 sink，返回合并后的错误
func MultiSink(sinks ...LogSink) LogSink {
	return multiSink(sinks)
}

func (m multiSink) CreateBatch(ctx context.Context, logs []domain.SysJobLog) error {
	var err error
	for _, s := range m {
		err = errors.Join(err, s.CreateBatch(ctx, logs))
	}
	return err
}
