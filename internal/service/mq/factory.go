package mq

import (
	"fmt"

	"safe-authenticator/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewProducer 按 redis.mq_type 选择实现；rdb 为 nil 时只能使用 memory
func NewProducer(cfg config.Config, rdb *redis.Client, broker *MemoryBroker) (Producer, error) {
	switch cfg.Redis.MQType {
	case "kafka":
		return NewKafkaProducer(cfg.Kafka.Brokers), nil
	case "redis", "":
		if rdb == nil {
			return broker, nil
		}
		return NewRedisProducer(rdb), nil
	case "memory":
		return broker, nil
	default:
		return nil, fmt.Errorf("unknown mq_type %q", cfg.Redis.MQType)
	}
}

// NewConsumer 外部订阅者 (CLI) 使用，不支持 memory
func NewConsumer(cfg config.Config, rdb *redis.Client, group, name string) (Consumer, error) {
	switch cfg.Redis.MQType {
	case "kafka":
		return NewKafkaConsumer(cfg.Kafka.Brokers, group), nil
	case "redis", "":
		if rdb == nil {
			return nil, fmt.Errorf("redis is not enabled")
		}
		return NewRedisConsumer(rdb, group, name), nil
	default:
		return nil, fmt.Errorf("mq_type %q cannot be consumed externally", cfg.Redis.MQType)
	}
}
