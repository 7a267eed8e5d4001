// Package sms abstracts the outbound text message transport.
package sms

import "context"

// Sender delivers a single text message to a phone number. Implementations
// report per-message success or failure and never retry.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}
