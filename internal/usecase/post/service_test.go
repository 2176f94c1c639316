package post

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"devconnector/internal/domain/post"
	"devconnector/internal/domain/user"
	"devconnector/internal/infrastructure/persistence/memory"
	"devconnector/internal/pkg/apperr"
)

type recordedEvent struct {
	event  string
	postID uuid.UUID
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *fakeNotifier) NotifyPost(event string, p post.Post) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{event: event, postID: p.ID})
}

func newTestService(t *testing.T) (*Service, *memory.UserRepository, *fakeNotifier) {
	t.Helper()
	users := memory.NewUserRepository()
	n := &fakeNotifier{}
	return NewService(memory.NewPostRepository(), users, n, zerolog.Nop()), users, n
}

func seedUser(t *testing.T, users *memory.UserRepository, name string) user.User {
	t.Helper()
	u := user.User{ID: uuid.New(), Name: name, Email: name + "@example.com", Avatar: "//avatar/" + name, CreatedAt: time.Now()}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestCreate_SnapshotsAuthor(t *testing.T) {
	svc, users, n := newTestService(t)
	alice := seedUser(t, users, "alice")

	p, err := svc.Create(context.Background(), alice.ID, TextInput{Text: "  hello  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Text != "hello" || p.Name != "alice" || p.Avatar != alice.Avatar || p.UserID != alice.ID {
		t.Fatalf("unexpected post: %+v", p)
	}
	if len(n.events) != 1 || n.events[0].event != post.EventCreated {
		t.Fatalf("expected a created event, got %+v", n.events)
	}
}

func TestCreate_RequiresText(t *testing.T) {
	svc, users, _ := newTestService(t)
	alice := seedUser(t, users, "alice")

	_, err := svc.Create(context.Background(), alice.ID, TextInput{Text: "   "})
	ve, ok := apperr.AsValidation(err)
	if !ok || len(ve.Fields) != 1 || ve.Fields[0].Msg != "Text is required" {
		t.Fatalf("expected text violation, got %v", err)
	}
}

func TestCreate_UnknownIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Create(context.Background(), uuid.New(), TextInput{Text: "hello"}); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestDeleteByID_OnlyOwner(t *testing.T) {
	svc, users, n := newTestService(t)
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	ctx := context.Background()

	p, err := svc.Create(ctx, alice.ID, TextInput{Text: "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteByID(ctx, bob.ID, p.ID.String()); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if got, err := svc.GetByID(ctx, p.ID.String()); err != nil || got.ID != p.ID {
		t.Fatalf("post should survive a rejected delete: %v", err)
	}

	if err := svc.DeleteByID(ctx, alice.ID, p.ID.String()); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, p.ID.String()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.DeleteByID(ctx, alice.ID, p.ID.String()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}

	if last := n.events[len(n.events)-1]; last.event != post.EventDeleted || last.postID != p.ID {
		t.Fatalf("expected delete event, got %+v", last)
	}
}

func TestGetByID_Malformed(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.GetByID(context.Background(), "123"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc, users, _ := newTestService(t)
	alice := seedUser(t, users, "alice")
	ctx := context.Background()

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for _, text := range []string{"one", "two", "three"} {
		if _, err := svc.Create(ctx, alice.ID, TextInput{Text: text}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 || items[0].Text != "three" || items[2].Text != "one" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestComments(t *testing.T) {
	svc, users, _ := newTestService(t)
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	ctx := context.Background()

	p, err := svc.Create(ctx, alice.ID, TextInput{Text: "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AddComment(ctx, alice.ID, p.ID.String(), TextInput{Text: "first"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	comments, err := svc.AddComment(ctx, bob.ID, p.ID.String(), TextInput{Text: "second"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if len(comments) != 2 || comments[0].Text != "second" || comments[0].Name != "bob" {
		t.Fatalf("unexpected comments: %+v", comments)
	}

	bobsComment := comments[0].ID.String()
	if _, err := svc.RemoveComment(ctx, alice.ID, p.ID.String(), bobsComment); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.RemoveComment(ctx, bob.ID, p.ID.String(), uuid.NewString()); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected comment not found, got %v", err)
	}

	comments, err = svc.RemoveComment(ctx, bob.ID, p.ID.String(), bobsComment)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(comments) != 1 || comments[0].Text != "first" {
		t.Fatalf("unexpected comments: %+v", comments)
	}

	if _, err := svc.AddComment(ctx, bob.ID, uuid.NewString(), TextInput{Text: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected post not found, got %v", err)
	}
}
