package events

import (
	"time"

	"github.com/google/uuid"

	"tech-blog/models"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	PostCreated     EventType = "post.created"
	PostUpdated     EventType = "post.updated"
	PostPublished   EventType = "post.published"
	PostUnpublished EventType = "post.unpublished"
	PostDeleted     EventType = "post.deleted"
)

const (
	SourceAPI    = "api"
	EventVersion = "1.0"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// GetType 이벤트 타입을 반환
func (e BaseEvent) GetType() EventType {
	return e.Type
}

// PostLifecycleEvent 포스트 생성/수정/발행/비발행/삭제 시 발행되는 이벤트
type PostLifecycleEvent struct {
	BaseEvent
	PostID    string          `json:"post_id"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Category  models.Category `json:"category"`
	Tags      []string        `json:"tags,omitempty"`
	Published bool            `json:"published"`
}

// NewPostLifecycleEvent 는 포스트 스냅샷으로 이벤트를 만든다.
func NewPostLifecycleEvent(t EventType, p *models.Post) PostLifecycleEvent {
	return PostLifecycleEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      t,
			Timestamp: time.Now().UTC(),
			Source:    SourceAPI,
			Version:   EventVersion,
		},
		PostID:    p.ID.Hex(),
		Slug:      p.Slug,
		Title:     p.Title,
		Category:  p.Category,
		Tags:      p.Tags,
		Published: p.Published,
	}
}
