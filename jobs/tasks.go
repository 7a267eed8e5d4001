package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/haven-app/haven/internal/platform/sms"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendSMS is the task type for out-of-band text messages.
	TaskTypeSendSMS = "sms:send"
	// TaskTypeSessionsPurge is the task type for expired session cleanup.
	TaskTypeSessionsPurge = "sessions:purge"
)

// SendSMSPayload describes the information required to send a text message.
type SendSMSPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// NewSendSMSTask constructs an Asynq task.
func NewSendSMSTask(payload SendSMSPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendSMS, data), nil
}

// NewSessionsPurgeTask constructs the cron cleanup task.
func NewSessionsPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskTypeSessionsPurge, nil)
}

// SendSMSJob processes TaskTypeSendSMS tasks through the SMS transport.
type SendSMSJob struct {
	sender sms.Sender
	logger *slog.Logger
}

// NewSendSMSJob constructs the job.
func NewSendSMSJob(sender sms.Sender, logger *slog.Logger) *SendSMSJob {
	return &SendSMSJob{sender: sender, logger: logger}
}

// Handle sends one queued message. A malformed payload is never retried.
func (j *SendSMSJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendSMSPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := j.sender.Send(ctx, payload.To, payload.Body); err != nil {
		j.logger.Warn("queued sms failed", slog.String("to", payload.To), slog.Any("error", err))
		return err
	}
	return nil
}

// SessionStore is the subset of the auth repository the purge job needs.
type SessionStore interface {
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// SessionsPurgeJob removes expired session audit rows.
type SessionsPurgeJob struct {
	store  SessionStore
	logger *slog.Logger
}

// NewSessionsPurgeJob constructs the job.
func NewSessionsPurgeJob(store SessionStore, logger *slog.Logger) *SessionsPurgeJob {
	return &SessionsPurgeJob{store: store, logger: logger}
}

// Handle purges expired sessions.
func (j *SessionsPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	purged, err := j.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return err
	}
	j.logger.Info("expired sessions purged", slog.Int64("count", purged))
	return nil
}
