package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/bookstore/internal/logging"
)

const (
	TopicUserEvents = "user_events"
	TopicBookEvents = "book_events"
	TopicCartEvents = "cart_events"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish is fire-and-forget: a broker failure is logged, never returned.
func publish(ctx context.Context, p EventPublisher, topic string, key any, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "type", event["type"], "error", err)
	}
}
