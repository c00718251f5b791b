package eventbus

import (
	"context"
	"encoding/json"
	"errors"
)

// Event는 Kafka 메시지의 페이로드로 사용되는 구조체입니다.
// Key 는 파티션 키, Headers 는 Kafka 메시지 헤더로만 쓰이고 메시지 본문에는 포함되지 않습니다.
type Event struct {
	ID      string            `json:"id"`
	Key     string            `json:"-"`
	Headers map[string]string `json:"-"`
	Payload json.RawMessage   `json:"payload"`
}

// EventBus 인터페이스는 이벤트 발행의 추상화를 정의합니다.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// ErrBusClosed 는 Close 이후 Publish 를 호출했을 때 반환됩니다.
var ErrBusClosed = errors.New("event bus closed")

// NoopEventBus 는 Kafka 가 비활성화된 환경에서 사용하는 구현체입니다.
type NoopEventBus struct{}

func (NoopEventBus) Publish(context.Context, string, Event) error { return nil }
func (NoopEventBus) Close()                                       {}
