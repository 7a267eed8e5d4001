package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []struct{ to, body string }
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, struct{ to, body string }{to, body})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSendSMSJobDelivers(t *testing.T) {
	sender := &fakeSender{}
	job := NewSendSMSJob(sender, testLogger())

	task, err := NewSendSMSTask(SendSMSPayload{To: "+911234567890", Body: "hello"})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+911234567890", sender.sent[0].to)
	assert.Equal(t, "hello", sender.sent[0].body)
}

func TestSendSMSJobSkipsMalformedPayload(t *testing.T) {
	sender := &fakeSender{}
	job := NewSendSMSJob(sender, testLogger())

	task := asynq.NewTask(TaskTypeSendSMS, []byte("{not json"))
	err := job.Handle(context.Background(), task)

	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, sender.sent)
}

func TestSendSMSJobPropagatesTransportError(t *testing.T) {
	sender := &fakeSender{err: errors.New("provider down")}
	job := NewSendSMSJob(sender, testLogger())

	task, err := NewSendSMSTask(SendSMSPayload{To: "+911234567890", Body: "hello"})
	require.NoError(t, err)

	assert.Error(t, job.Handle(context.Background(), task))
}

func TestSendSMSTaskPayloadShape(t *testing.T) {
	task, err := NewSendSMSTask(SendSMSPayload{To: "+911234567890", Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeSendSMS, task.Type())

	var payload SendSMSPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "+911234567890", payload.To)
}

type fakeSessionStore struct {
	purged int64
	err    error
}

func (f *fakeSessionStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return f.purged, f.err
}

func TestSessionsPurgeJob(t *testing.T) {
	job := NewSessionsPurgeJob(&fakeSessionStore{purged: 4}, testLogger())
	assert.NoError(t, job.Handle(context.Background(), NewSessionsPurgeTask()))
}

func TestSessionsPurgeJobPropagatesError(t *testing.T) {
	job := NewSessionsPurgeJob(&fakeSessionStore{err: errors.New("db down")}, testLogger())
	assert.Error(t, job.Handle(context.Background(), NewSessionsPurgeTask()))
}
