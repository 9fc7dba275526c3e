package mq

import "context"

// 事件主题
const (
	TopicConfirmations  = "safe:events:confirmation"
	TopicLimitTransfers = "safe:events:limit_transfer"
)

// Message 一条事件消息
type Message struct {
	ID      string // Redis Stream ID 或 Kafka partition/offset
	Topic   string
	Key     string // 分区键，这里使用 Safe 地址
	Payload []byte // JSON
}

// Producer 生产者接口
type Producer interface {
	// Publish key 用于分区排序，空串则随机分区
	Publish(ctx context.Context, topic string, key string, payload []byte) error
	Close() error
}

// Consumer 消费者接口
type Consumer interface {
	// Subscribe 阻塞直到 ctx 取消；handler 返回 error 时该消息不确认
	Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error
	Close() error
}
