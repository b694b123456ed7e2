package producerX

import (
	"time"

	"github.com/IBM/sarama"
)

type ProducerConfig struct {
	// ClientId kafka 客户端标识
	ClientId string
	// Timeout 单次发送的等待超时
	Timeout time.Duration
	// Retry 发送失败重试次数
	Retry int
}

func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		ClientId: "ry-admin",
		Timeout:  5 * time.Second,
		Retry:    3,
	}
}

func (c *ProducerConfig) Validate() {
	if c.ClientId == "" {
		c.ClientId = "ry-admin"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.Retry < 0 {
		c.Retry = 0
	}
}

// saramaConfig 同步生产者必须开启 Return.Successes
func (c *ProducerConfig) saramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = c.ClientId
	cfg.Version = sarama.V2_8_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Timeout = c.Timeout
	cfg.Producer.Retry.Max = c.Retry
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	return cfg
}
