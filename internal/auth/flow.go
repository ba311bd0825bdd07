// Package auth implements the phone/OTP login flow as an explicit state
// machine: phone -> verify -> collect_username -> done. Server failures
// re-enter the current step; the user may retry indefinitely.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/bus"
	"go.uber.org/zap"
)

// Step is a login flow state.
type Step string

const (
	StepPhone           Step = "phone"
	StepVerify          Step = "verify"
	StepCollectUsername Step = "collect_username"
	StepDone            Step = "done"
)

// validTransitions defines allowed step transitions.
// StepVerify allows itself so a code can be re-sent while waiting.
var validTransitions = map[Step][]Step{
	StepPhone:           {StepVerify},
	StepVerify:          {StepVerify, StepCollectUsername, StepDone, StepPhone},
	StepCollectUsername: {StepDone},
	StepDone:            {StepPhone},
}

var (
	phoneRegexp = regexp.MustCompile(`^09\d{9}$`)
	codeRegexp  = regexp.MustCompile(`^\d{6}$`)
)

// ErrBusy is returned when a step operation is already in flight.
var ErrBusy = errors.New("auth request already in flight")

// Client is the slice of the API the flow depends on.
type Client interface {
	Register(ctx context.Context, phoneNumber string) error
	Verify(ctx context.Context, phoneNumber, code string) (string, error)
	GetUsername(ctx context.Context) (string, error)
	UpdateUsername(ctx context.Context, username string) error
}

// TokenSink receives the verified token. Implemented by session.Store.
type TokenSink interface {
	Set(token string) error
}

// Flow drives the login state machine. At most one server operation is in
// flight at a time; concurrent calls fail with ErrBusy.
type Flow struct {
	mu           sync.Mutex
	step         Step
	phoneNumber  string
	agreeToTerms bool
	busy         bool

	client  Client
	session TokenSink
	bus     *bus.Bus
	logger  *zap.Logger
}

// NewFlow creates a flow in the phone step.
func NewFlow(client Client, session TokenSink, b *bus.Bus, logger *zap.Logger) *Flow {
	return &Flow{
		step:    StepPhone,
		client:  client,
		session: session,
		bus:     b,
		logger:  logger,
	}
}

// Step returns the current step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// PhoneNumber returns the phone number captured by SendCode.
func (f *Flow) PhoneNumber() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phoneNumber
}

// SetAgreeToTerms records the terms checkbox. Checked at verify time.
func (f *Flow) SetAgreeToTerms(agreed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agreeToTerms = agreed
}

// SendCode validates the phone number and requests an OTP. The validation
// guard runs before any network call. Calling it again from the verify step
// re-sends the code.
func (f *Flow) SendCode(ctx context.Context, phoneNumber string) error {
	f.mu.Lock()
	if f.step != StepPhone && f.step != StepVerify {
		step := f.step
		f.mu.Unlock()
		return fmt.Errorf("cannot send code in step %s", step)
	}
	f.mu.Unlock()

	if !phoneRegexp.MatchString(phoneNumber) {
		return &api.ValidationError{Field: "phone_number", Reason: "must be 11 digits starting with 09"}
	}

	release, err := f.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := f.client.Register(ctx, phoneNumber); err != nil {
		f.logger.Warn("register failed", zap.Error(err))
		return err
	}

	f.mu.Lock()
	f.phoneNumber = phoneNumber
	f.mu.Unlock()
	return f.transition(StepVerify)
}

// VerifyCode exchanges the OTP for a token, stores it in the session and
// decides whether a username still has to be collected. The terms checkbox
// must be accepted before verification.
func (f *Flow) VerifyCode(ctx context.Context, code string) error {
	f.mu.Lock()
	if f.step != StepVerify {
		step := f.step
		f.mu.Unlock()
		return fmt.Errorf("cannot verify code in step %s", step)
	}
	if !f.agreeToTerms {
		f.mu.Unlock()
		return &api.ValidationError{Field: "terms", Reason: "terms must be accepted"}
	}
	phone := f.phoneNumber
	f.mu.Unlock()

	if !codeRegexp.MatchString(code) {
		return &api.ValidationError{Field: "code", Reason: "must be 6 digits"}
	}

	release, err := f.acquire()
	if err != nil {
		return err
	}
	defer release()

	token, err := f.client.Verify(ctx, phone, code)
	if err != nil {
		f.logger.Warn("verify failed", zap.Error(err))
		return err
	}
	if err := f.session.Set(token); err != nil {
		return err
	}

	username, err := f.client.GetUsername(ctx)
	if err != nil {
		// Token is already stored; fall back to collecting a username.
		f.logger.Warn("username lookup failed", zap.Error(err))
		return f.transition(StepCollectUsername)
	}
	if username == "" || username == phone {
		return f.transition(StepCollectUsername)
	}
	return f.transition(StepDone)
}

// SaveUsername stores a display name for accounts that never picked one.
func (f *Flow) SaveUsername(ctx context.Context, username string) error {
	f.mu.Lock()
	if f.step != StepCollectUsername {
		step := f.step
		f.mu.Unlock()
		return fmt.Errorf("cannot save username in step %s", step)
	}
	f.mu.Unlock()

	if username == "" {
		return &api.ValidationError{Field: "username", Reason: "must not be empty"}
	}

	release, err := f.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := f.client.UpdateUsername(ctx, username); err != nil {
		f.logger.Warn("username update failed", zap.Error(err))
		return err
	}
	return f.transition(StepDone)
}

// Reset returns the flow to the phone step for a fresh login.
func (f *Flow) Reset() {
	f.mu.Lock()
	f.step = StepPhone
	f.phoneNumber = ""
	f.agreeToTerms = false
	f.mu.Unlock()
}

func (f *Flow) acquire() (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return nil, ErrBusy
	}
	f.busy = true
	return func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}, nil
}

func (f *Flow) transition(to Step) error {
	f.mu.Lock()
	allowed := validTransitions[f.step]
	if !slices.Contains(allowed, to) {
		from := f.step
		f.mu.Unlock()
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	from := f.step
	f.step = to
	f.mu.Unlock()

	if f.bus != nil {
		f.bus.Publish(bus.Event{
			Kind:      bus.KindAuthStepChanged,
			Timestamp: time.Now(),
			Payload:   StepChange{From: from, To: to},
		})
	}
	return nil
}

// StepChange is the payload for step change events.
type StepChange struct {
	From Step
	To   Step
}
