package alerts

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haven-app/haven/internal/guardians"
	"github.com/haven-app/haven/internal/shared"
	"github.com/haven-app/haven/internal/users"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []sentMessage
	failFor  map[string]error
}

type sentMessage struct {
	to   string
	body string
}

func (f *fakeSender) Send(ctx context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.messages = append(f.messages, sentMessage{to: to, body: body})
	return nil
}

func (f *fakeSender) sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.messages...)
}

type stubGuardianRepo struct {
	list []guardians.Guardian
	err  error
}

func (s *stubGuardianRepo) ListByUser(ctx context.Context, userID int64) ([]guardians.Guardian, error) {
	return s.list, s.err
}

func (s *stubGuardianRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	return len(s.list), nil
}

func (s *stubGuardianRepo) Get(ctx context.Context, id int64) (*guardians.Guardian, error) {
	return nil, shared.ErrNotFound
}

func (s *stubGuardianRepo) Create(ctx context.Context, userID int64, fields guardians.Fields) (*guardians.Guardian, error) {
	return nil, errors.New("not implemented")
}

func (s *stubGuardianRepo) Update(ctx context.Context, id int64, fields guardians.Fields) (*guardians.Guardian, error) {
	return nil, errors.New("not implemented")
}

func (s *stubGuardianRepo) Delete(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func floatPtr(v float64) *float64 { return &v }

func TestDispatchSendsToEveryContact(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, &stubGuardianRepo{}, nil, testLogger())

	contacts := []Contact{{Phone: "+911111111111"}, {Phone: "+912222222222"}, {Phone: "+913333333333"}}
	result, err := d.Dispatch(context.Background(), floatPtr(12.9), floatPtr(77.6), contacts)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Sent)
	assert.Zero(t, result.Failed)

	sent := sender.sent()
	require.Len(t, sent, 3)
	for _, msg := range sent {
		assert.Contains(t, msg.body, "https://www.google.com/maps?q=12.9,77.6")
		assert.Contains(t, msg.body, "ALERT: I need help!")
	}
}

func TestDispatchEmptyContactsIssuesZeroSends(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, &stubGuardianRepo{}, nil, testLogger())

	_, err := d.Dispatch(context.Background(), floatPtr(12.9), floatPtr(77.6), nil)
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, sender.sent())
}

func TestDispatchMissingCoordinatesIssuesZeroSends(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, &stubGuardianRepo{}, nil, testLogger())

	_, err := d.Dispatch(context.Background(), nil, floatPtr(77.6), []Contact{{Phone: "+911111111111"}})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, sender.sent())
}

func TestDispatchPartialFailureIsAggregateFailure(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{"+912222222222": errors.New("provider down")}}
	d := NewDispatcher(sender, &stubGuardianRepo{}, nil, testLogger())

	contacts := []Contact{{Phone: "+911111111111"}, {Phone: "+912222222222"}}
	result, err := d.Dispatch(context.Background(), floatPtr(1), floatPtr(2), contacts)

	require.ErrorIs(t, err, shared.ErrTransport)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
	// The healthy contact still received an attempt.
	require.Len(t, sender.sent(), 1)
	assert.Equal(t, "+911111111111", sender.sent()[0].to)
}

func TestShareLocationResolvesGuardiansServerSide(t *testing.T) {
	sender := &fakeSender{}
	repo := &stubGuardianRepo{list: []guardians.Guardian{
		{ID: 1, UserID: 7, Phone: "+911111111111"},
		{ID: 2, UserID: 7, Phone: "+912222222222"},
	}}
	d := NewDispatcher(sender, repo, nil, testLogger())

	owner := &users.User{ID: 7, Email: "me@haven.local"}
	result, err := d.ShareLocation(context.Background(), owner, floatPtr(12.9), floatPtr(77.6))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Sent)
	sent := sender.sent()
	require.Len(t, sent, 2)
	for _, msg := range sent {
		assert.Contains(t, msg.body, "Your guardian's current location is:")
		assert.Contains(t, msg.body, "https://www.google.com/maps?q=12.9,77.6")
	}
}

func TestShareLocationWithoutGuardiansFails(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, &stubGuardianRepo{}, nil, testLogger())

	owner := &users.User{ID: 7, Email: "me@haven.local"}
	_, err := d.ShareLocation(context.Background(), owner, floatPtr(1), floatPtr(2))
	require.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, sender.sent())
}

func TestMessageFormatting(t *testing.T) {
	assert.Equal(t,
		"ALERT: I need help! My location is: https://www.google.com/maps?q=12.9,77.6",
		AlertMessage(12.9, 77.6))
	assert.Equal(t,
		"Your guardian's current location is: https://www.google.com/maps?q=-33.87,151.21",
		LocationMessage(-33.87, 151.21))
}
