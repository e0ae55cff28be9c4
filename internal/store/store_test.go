package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSubscriber(id, email string) *domain.Subscriber {
	now := time.Now().UTC()
	return &domain.Subscriber{
		ID:           id,
		Email:        email,
		MemberNumber: "12345",
		Preferences: domain.Preferences{
			Days:       []string{"Monday"},
			Committees: []string{"Checkout"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSubscribers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := testSubscriber("sub-1", "member@example.com")
	require.NoError(t, s.Subscribers.Create(ctx, sub.ID, sub))

	got, err := s.Subscribers.Get(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "member@example.com", got.Email)
	assert.Equal(t, domain.StringList{"Monday"}, got.Preferences.Days)
}

func TestSubscribers_GetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Subscribers.Get(context.Background(), "sub-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscribers_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Subscribers.Create(ctx, "sub-1", testSubscriber("sub-1", "a@example.com")))
	err := s.Subscribers.Create(ctx, "sub-1", testSubscriber("sub-1", "b@example.com"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestSubscribers_EmailIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Subscribers.Create(ctx, "sub-1", testSubscriber("sub-1", "Member@Example.com")))

	// Lookups are normalized to lowercase.
	got, err := s.Subscribers.GetByIndex(ctx, "email", "member@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", got.ID)

	// The store helper normalizes the lookup value itself.
	got, err = s.GetSubscriberByEmail(ctx, "  MEMBER@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", got.ID)

	// Duplicate email rejected regardless of case.
	err = s.Subscribers.Create(ctx, "sub-2", testSubscriber("sub-2", "MEMBER@example.com"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestSubscribers_UpdateMovesIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := testSubscriber("sub-1", "old@example.com")
	require.NoError(t, s.Subscribers.Create(ctx, "sub-1", sub))

	sub.Email = "new@example.com"
	require.NoError(t, s.Subscribers.Update(ctx, "sub-1", sub))

	_, err := s.Subscribers.GetByIndex(ctx, "email", "old@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Subscribers.GetByIndex(ctx, "email", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", got.ID)
}

func TestSubscribers_UpdateNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Subscribers.Update(context.Background(), "sub-ghost", testSubscriber("sub-ghost", "g@example.com"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscribers_DeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Subscribers.Create(ctx, "sub-1", testSubscriber("sub-1", "a@example.com")))
	require.NoError(t, s.Subscribers.Delete(ctx, "sub-1"))
	require.NoError(t, s.Subscribers.Delete(ctx, "sub-1"))

	// Email index is freed by the delete.
	require.NoError(t, s.Subscribers.Create(ctx, "sub-2", testSubscriber("sub-2", "a@example.com")))
}

func TestSubscribers_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Subscribers.Create(ctx, "sub-1", testSubscriber("sub-1", "a@example.com")))
	require.NoError(t, s.Subscribers.Create(ctx, "sub-2", testSubscriber("sub-2", "b@example.com")))

	var emails []string
	for sub, err := range s.Subscribers.List(ctx) {
		require.NoError(t, err)
		emails = append(emails, sub.Email)
	}
	assert.Len(t, emails, 2)
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, emails)
}

func TestRawHTML_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutRawHTML(ctx, "tok-1", "<html>shifts</html>", time.Minute))

	html, err := s.GetRawHTML(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "<html>shifts</html>", html)
}

func TestRawHTML_MissingToken(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRawHTML(context.Background(), "tok-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRawHTML_Expires(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutRawHTML(ctx, "tok-short", "<html></html>", time.Second))

	time.Sleep(1100 * time.Millisecond)

	_, err := s.GetRawHTML(ctx, "tok-short")
	assert.ErrorIs(t, err, ErrNotFound)
}
