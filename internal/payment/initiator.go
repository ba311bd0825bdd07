// Package payment handles wallet top-ups: amount validation, requesting the
// gateway redirect URL, and the return-leg verification.
package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/bus"
	"go.uber.org/zap"
)

// Gateway bounds for a single top-up, in rial.
const (
	MinAmount = 100_000
	MaxAmount = 5_000_000
)

// ErrBusy is returned when a link request is already in flight.
var ErrBusy = errors.New("payment request already in flight")

// Gateway is the slice of the API the initiator depends on.
type Gateway interface {
	CreatePayment(ctx context.Context, amount int64) (string, error)
	VerifyPayment(ctx context.Context, transID, idGet string) (string, error)
}

// Initiator requests payment links. The redirect URL is stored for a
// follow-up navigation action; nothing auto-opens.
type Initiator struct {
	mu   sync.Mutex
	url  string
	busy bool

	client Gateway
	bus    *bus.Bus
	logger *zap.Logger
}

// NewInitiator creates a payment initiator.
func NewInitiator(client Gateway, b *bus.Bus, logger *zap.Logger) *Initiator {
	return &Initiator{client: client, bus: b, logger: logger}
}

// RequestLink validates the amount and asks the gateway for a redirect URL.
// Amounts outside [MinAmount, MaxAmount] fail locally with no request.
func (i *Initiator) RequestLink(ctx context.Context, amount int64) (string, error) {
	if amount < MinAmount || amount > MaxAmount {
		return "", &api.ValidationError{
			Field:  "amount",
			Reason: "must be between 100,000 and 5,000,000 rial",
		}
	}

	i.mu.Lock()
	if i.busy {
		i.mu.Unlock()
		return "", ErrBusy
	}
	i.busy = true
	i.mu.Unlock()
	defer func() {
		i.mu.Lock()
		i.busy = false
		i.mu.Unlock()
	}()

	url, err := i.client.CreatePayment(ctx, amount)
	if err != nil {
		i.logger.Warn("payment link request failed", zap.Error(err), zap.Int64("amount", amount))
		return "", err
	}

	i.mu.Lock()
	i.url = url
	i.mu.Unlock()

	if i.bus != nil {
		i.bus.Publish(bus.Event{Kind: bus.KindPaymentLink, Timestamp: time.Now(), Payload: url})
	}
	return url, nil
}

// LinkURL returns the last stored redirect URL, "" if none.
func (i *Initiator) LinkURL() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.url
}

// Verify confirms the return leg of a payment.
func (i *Initiator) Verify(ctx context.Context, transID, idGet string) (string, error) {
	if transID == "" || idGet == "" {
		return "", &api.ValidationError{Field: "trans_id", Reason: "both trans_id and id_get are required"}
	}
	return i.client.VerifyPayment(ctx, transID, idGet)
}
