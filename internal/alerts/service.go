package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/haven-app/haven/internal/guardians"
	"github.com/haven-app/haven/internal/platform/sms"
	"github.com/haven-app/haven/internal/shared"
	"github.com/haven-app/haven/internal/users"
)

// Contact is the minimal recipient shape the dispatcher needs.
type Contact struct {
	Phone string `json:"phone"`
}

// Result aggregates the outcome of one fan-out.
type Result struct {
	Sent   int
	Failed int
}

// Observer is notified of dispatch outcomes, typically for metrics.
type Observer interface {
	ObserveAlertDispatch(outcome string)
}

// Dispatcher fans emergency messages out to guardian contacts. The overall
// operation succeeds only when every individual send succeeds.
type Dispatcher struct {
	sender   sms.Sender
	repo     guardians.Repository
	observer Observer
	logger   *slog.Logger
}

// NewDispatcher constructs a Dispatcher. The observer may be nil.
func NewDispatcher(sender sms.Sender, repo guardians.Repository, observer Observer, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, repo: repo, observer: observer, logger: logger}
}

// Dispatch sends the emergency alert to every contact. It validates inputs
// before any send is attempted, so a validation failure issues zero
// transport calls. Sends run concurrently with no ordering guarantee.
func (d *Dispatcher) Dispatch(ctx context.Context, latitude, longitude *float64, contacts []Contact) (Result, error) {
	if latitude == nil || longitude == nil || len(contacts) == 0 {
		return Result{}, shared.ErrValidation
	}

	body := AlertMessage(*latitude, *longitude)
	return d.fanOut(ctx, body, contacts)
}

// ShareLocation re-resolves the owner's guardians and sends each the current
// location. Unlike Dispatch it never trusts a caller-supplied contact list.
func (d *Dispatcher) ShareLocation(ctx context.Context, owner *users.User, latitude, longitude *float64) (Result, error) {
	if latitude == nil || longitude == nil {
		return Result{}, shared.ErrValidation
	}

	list, err := d.repo.ListByUser(ctx, owner.ID)
	if err != nil {
		return Result{}, err
	}
	if len(list) == 0 {
		return Result{}, shared.ErrNotFound
	}

	contacts := make([]Contact, len(list))
	for i, g := range list {
		contacts[i] = Contact{Phone: g.Phone}
	}
	return d.fanOut(ctx, LocationMessage(*latitude, *longitude), contacts)
}

// GuardiansFor lists the owner's guardians as dispatch contacts.
func (d *Dispatcher) GuardiansFor(ctx context.Context, owner *users.User) ([]Contact, error) {
	list, err := d.repo.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	contacts := make([]Contact, len(list))
	for i, g := range list {
		contacts[i] = Contact{Phone: g.Phone}
	}
	return contacts, nil
}

func (d *Dispatcher) fanOut(ctx context.Context, body string, contacts []Contact) (Result, error) {
	var failed atomic.Int64

	// Every contact gets a send attempt; one failure does not cancel the
	// others, it only fails the aggregate.
	var g errgroup.Group
	for _, contact := range contacts {
		g.Go(func() error {
			if err := d.sender.Send(ctx, contact.Phone, body); err != nil {
				failed.Add(1)
				d.logger.Error("alert send failed", slog.String("to", contact.Phone), slog.Any("error", err))
				return fmt.Errorf("%w: %v", shared.ErrTransport, err)
			}
			return nil
		})
	}

	err := g.Wait()
	result := Result{
		Sent:   len(contacts) - int(failed.Load()),
		Failed: int(failed.Load()),
	}
	if d.observer != nil {
		outcome := "sent"
		if err != nil {
			outcome = "failed"
		}
		d.observer.ObserveAlertDispatch(outcome)
	}
	return result, err
}

// AlertMessage composes the emergency alert body with an embedded map link.
func AlertMessage(latitude, longitude float64) string {
	return "ALERT: I need help! My location is: " + mapsURL(latitude, longitude)
}

// LocationMessage composes the location sharing body.
func LocationMessage(latitude, longitude float64) string {
	return "Your guardian's current location is: " + mapsURL(latitude, longitude)
}

func mapsURL(latitude, longitude float64) string {
	return "https://www.google.com/maps?q=" +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(longitude, 'f', -1, 64)
}
