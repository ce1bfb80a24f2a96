// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"roleplay-coach-go/internal/config"
	"roleplay-coach-go/pkg/events"
	"roleplay-coach-go/pkg/log"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter 是 kafka.Writer 中被使用到的子集，便于测试替换。
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer 将会话评分事件发送到 Kafka。
type Producer struct {
	writer MessageWriter
	topic  string
}

// NewProducer 初始化 Kafka 生产者。
func NewProducer(cfg config.KafkaConfig) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}
	log.Infof("Kafka 生产者初始化成功，topic: %s", cfg.Topic)
	return &Producer{writer: w, topic: cfg.Topic}
}

// NewProducerWithWriter 使用自定义 writer 构造 Producer。
func NewProducerWithWriter(w MessageWriter, topic string) *Producer {
	return &Producer{writer: w, topic: topic}
}

// PublishSessionScored 发送一条 SessionScored 事件，以 session id 作为消息 key。
func (p *Producer) PublishSessionScored(ctx context.Context, event events.SessionScored) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("session.scored")},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write session event to %s: %w", p.topic, err)
	}
	return nil
}

// Close 刷新并关闭底层 writer。
func (p *Producer) Close() error {
	return p.writer.Close()
}
