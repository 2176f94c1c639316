package ws

import (
	"encoding/json"
	"time"

	"devconnector/internal/domain/post"
)

type PostEvent struct {
	Type      string     `json:"type"`
	PostID    string     `json:"post_id"`
	Post      *post.Post `json:"post,omitempty"`
	Timestamp string     `json:"timestamp"`
}

// Notifier publishes post changes to the hub's subscribers.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

// NotifyPost broadcasts event for p. Deletions carry only the id.
func (n *Notifier) NotifyPost(event string, p post.Post) {
	if n == nil || n.hub == nil {
		return
	}

	evt := PostEvent{
		Type:      event,
		PostID:    p.ID.String(),
		Timestamp: n.now().UTC().Format(time.RFC3339),
	}
	if event != post.EventDeleted {
		evt.Post = &p
	}

	b, err := json.Marshal(evt)
	if err != nil {
		n.hub.log.Error().Err(err).Str("event", event).Msg("ws event encode failed")
		return
	}
	n.hub.Broadcast(b)
}
