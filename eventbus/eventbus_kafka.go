package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"tech-blog/internal/logger"
)

const flushTimeoutMs = 5000

// ProducerConfig 는 KafkaEventBus 생성 옵션이다.
type ProducerConfig struct {
	Brokers  string
	ClientID string
}

func (c ProducerConfig) configMap() *kafka.ConfigMap {
	clientID := c.ClientID
	if clientID == "" {
		clientID = "tech-blog-api"
	}
	return &kafka.ConfigMap{
		"bootstrap.servers":  c.Brokers,
		"client.id":          clientID,
		"acks":               "all",
		"enable.idempotence": true,
		"linger.ms":          5,
	}
}

// KafkaEventBus publishes events with a confluent-kafka-go producer.
type KafkaEventBus struct {
	producer *kafka.Producer
	closed   atomic.Bool
}

func NewKafkaEventBus(cfg ProducerConfig) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(cfg.configMap())
	if err != nil {
		return nil, fmt.Errorf("kafka producer 생성 실패: %w", err)
	}
	bus := &KafkaEventBus{producer: p}
	go bus.watch()
	return bus, nil
}

// watch 는 delivery channel 없이 발행된 메시지와 클라이언트 오류를 로그로 남긴다.
func (k *KafkaEventBus) watch() {
	for e := range k.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logger.ErrorWithFields("kafka delivery failed", logger.Fields{
					"topic": topicName(ev.TopicPartition),
					"error": ev.TopicPartition.Error.Error(),
				})
			}
		case kafka.Error:
			logger.ErrorWithFields("kafka client error", logger.Fields{"code": ev.Code().String(), "error": ev.Error()})
		}
	}
}

// Close flushes pending messages and closes the producer. 두 번 호출해도 안전하다.
func (k *KafkaEventBus) Close() {
	if k.producer == nil || !k.closed.CompareAndSwap(false, true) {
		return
	}
	if remaining := k.producer.Flush(flushTimeoutMs); remaining > 0 {
		logger.WarnWithFields("kafka producer closed with unflushed messages", logger.Fields{"remaining": remaining})
	}
	k.producer.Close()
}

// Publish 는 전달 보고를 기다린다. ctx 가 먼저 끝나면 ctx.Err() 를 반환한다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	if k.closed.Load() {
		return ErrBusClosed
	}
	msg, err := newMessage(topic, event)
	if err != nil {
		return err
	}

	// 버퍼 1 채널이라 ctx 가 먼저 끝나도 producer 가 블록되지 않는다.
	delivery := make(chan kafka.Event, 1)
	if err := k.producer.Produce(msg, delivery); err != nil {
		return fmt.Errorf("kafka produce 실패: %w", err)
	}

	select {
	case ev := <-delivery:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event: %v", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("kafka delivery 실패: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// newMessage 는 Event 를 JSON 본문, 파티션 키, 헤더로 나눈다. Key 가 없으면 ID 로 파티셔닝한다.
func newMessage(topic string, event Event) (*kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("event marshal 실패: %w", err)
	}
	key := event.Key
	if key == "" {
		key = event.ID
	}
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          data,
	}
	for k, v := range event.Headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return msg, nil
}

func topicName(tp kafka.TopicPartition) string {
	if tp.Topic == nil {
		return ""
	}
	return *tp.Topic
}
