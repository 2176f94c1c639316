package post

import (
	"testing"

	"github.com/google/uuid"
)

func TestOwnedBy(t *testing.T) {
	owner := uuid.New()
	p := Post{ID: uuid.New(), UserID: owner}

	if !p.OwnedBy(owner) {
		t.Fatalf("owner should own post")
	}
	if p.OwnedBy(uuid.New()) {
		t.Fatalf("other identity should not own post")
	}
}

func TestComments_PrependFindRemove(t *testing.T) {
	p := Post{ID: uuid.New()}
	first := Comment{ID: uuid.New(), Text: "first"}
	second := Comment{ID: uuid.New(), Text: "second"}

	p.PrependComment(first)
	p.PrependComment(second)

	if p.Comments[0].ID != second.ID {
		t.Fatalf("newest comment should be first")
	}
	if _, ok := p.FindComment(first.ID); !ok {
		t.Fatalf("expected to find comment")
	}
	if p.RemoveComment(uuid.New()) {
		t.Fatalf("missing comment should report false")
	}
	if !p.RemoveComment(second.ID) || len(p.Comments) != 1 || p.Comments[0].ID != first.ID {
		t.Fatalf("unexpected comments: %+v", p.Comments)
	}
}
