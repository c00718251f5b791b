package services

import (
	"context"
	"time"

	"tech-blog/cmd/api/trace"
	"tech-blog/eventbus"
	"tech-blog/events"
	"tech-blog/internal/logger"
	"tech-blog/models"
)

const eventPublishTimeout = 5 * time.Second

// EventService publishes post lifecycle events. A nil *EventService is a valid no-op.
type EventService struct {
	bus   eventbus.EventBus
	topic string
}

func NewEventService(bus eventbus.EventBus, topic string) *EventService {
	return &EventService{bus: bus, topic: topic}
}

// PublishPost 는 실패해도 요청을 실패시키지 않는다. 오류는 로그만 남긴다.
func (s *EventService) PublishPost(ctx context.Context, t events.EventType, p *models.Post) {
	if s == nil || s.bus == nil || p == nil {
		return
	}
	requestID, spanID := trace.Next(ctx)
	payload := events.NewPostLifecycleEvent(t, p)
	evt, err := eventbus.NewJSONEvent(payload.ID, payload.PostID, payload)
	if err != nil {
		logger.ErrorWithFields("failed to build post event", logger.Fields{"type": t, "post_id": payload.PostID, "error": err.Error()})
		return
	}
	evt.Headers = map[string]string{
		trace.HeaderRequestID: requestID,
		trace.HeaderSpanID:    spanID,
		"event_type":          string(t),
	}

	// 요청 컨텍스트가 취소되어도 발행은 끝까지 시도한다.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := s.bus.Publish(ctx, s.topic, evt); err != nil {
		logger.ErrorWithFields("failed to publish post event", logger.Fields{
			"type":       t,
			"post_id":    payload.PostID,
			"topic":      s.topic,
			"error":      err.Error(),
			"request_id": requestID,
			"span_id":    spanID,
		})
		return
	}
	logger.DebugWithFields("post event published", logger.Fields{
		"type":       t,
		"post_id":    payload.PostID,
		"request_id": requestID,
		"span_id":    spanID,
	})
}
