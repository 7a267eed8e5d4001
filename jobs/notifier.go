package jobs

import (
	"context"
	"fmt"

	"github.com/haven-app/haven/internal/guardians"
	"github.com/haven-app/haven/internal/users"
)

// GuardianNotifier queues a welcome text for newly added guardians.
type GuardianNotifier struct {
	client *Client
}

// NewGuardianNotifier constructs the notifier.
func NewGuardianNotifier(client *Client) *GuardianNotifier {
	return &GuardianNotifier{client: client}
}

// NotifyGuardianAdded enqueues the welcome message. Delivery happens in the
// worker so guardian creation never blocks on the SMS provider.
func (n *GuardianNotifier) NotifyGuardianAdded(ctx context.Context, guardian guardians.Guardian, owner *users.User) error {
	ownerName := owner.Email
	if owner.Name != nil && *owner.Name != "" {
		ownerName = *owner.Name
	}
	body := fmt.Sprintf("%s added you as their emergency guardian on Haven. You will receive an SMS with their location if they trigger an alert.", ownerName)
	_, err := n.client.EnqueueSendSMS(ctx, SendSMSPayload{To: guardian.Phone, Body: body})
	return err
}

var _ guardians.Notifier = (*GuardianNotifier)(nil)
