package post

import (
	"time"

	"github.com/google/uuid"
)

// Post carries a name/avatar snapshot taken from the author's identity at
// creation time. The snapshot is never refreshed.
type Post struct {
	ID        uuid.UUID `json:"_id"`
	UserID    uuid.UUID `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"date"`
}

type Comment struct {
	ID        uuid.UUID `json:"_id"`
	UserID    uuid.UUID `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

func (p Post) OwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

func (c Comment) OwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}

// FindComment returns the comment with id, if present.
func (p Post) FindComment(id uuid.UUID) (Comment, bool) {
	for _, c := range p.Comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

func (p *Post) PrependComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

func (p *Post) RemoveComment(id uuid.UUID) bool {
	for i, c := range p.Comments {
		if c.ID == id {
			p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// Event names published when posts change.
const (
	EventCreated        = "post_created"
	EventDeleted        = "post_deleted"
	EventCommentAdded   = "comment_added"
	EventCommentRemoved = "comment_removed"
)
