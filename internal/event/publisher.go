package event

import (
	"context"
	"encoding/json"
	"time"

	"safe-authenticator/internal/model"
	"safe-authenticator/internal/service/mq"
	"safe-authenticator/pkg/logger"

	"go.uber.org/zap"
)

// Publisher 发布失败只记录日志，不影响已经完成的提交
type Publisher struct {
	producer mq.Producer
	now      func() time.Time
}

func NewPublisher(producer mq.Producer) *Publisher {
	return &Publisher{producer: producer, now: time.Now}
}

func (p *Publisher) ConfirmationSubmitted(ctx context.Context, c *model.SignedConfirmation) {
	if p == nil {
		return
	}
	p.publish(ctx, mq.TopicConfirmations, c.Safe.Hex(), NewConfirmationSubmitted(c, p.now()))
}

func (p *Publisher) LimitTransferSubmitted(ctx context.Context, t *model.LimitTransfer) {
	if p == nil {
		return
	}
	p.publish(ctx, mq.TopicLimitTransfers, t.Safe.Hex(), NewLimitTransferSubmitted(t, p.now()))
}

func (p *Publisher) publish(ctx context.Context, topic, key string, ev interface{}) {
	if p.producer == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("marshal event failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	if err := p.producer.Publish(ctx, topic, key, payload); err != nil {
		logger.Warn("publish event failed", zap.String("topic", topic), zap.String("key", key), zap.Error(err))
	}
}
