// Package visit implements the four-step booking wizard. Steps are strictly
// sequential; going back never loses entered data; the final step submits
// the aggregated form in one request.
package visit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/bus"
	"github.com/medogram/medoterm/internal/store"
	"go.uber.org/zap"
)

// Form holds everything the wizard collects. Symptom fields hold an enum
// value per category, "" meaning no selection.
type Form struct {
	Name                     string
	NationalCode             string
	InsuranceType            string
	Urgency                  string
	GeneralSymptoms          string
	NeurologicalSymptoms     string
	CardiovascularSymptoms   string
	GastrointestinalSymptoms string
	RespiratorySymptoms      string
	Description              string
}

const (
	StepPatient  = 1
	StepPrimary  = 2
	StepExtended = 3
	StepSummary  = 4
)

var nationalCodeRegexp = regexp.MustCompile(`^\d{10}$`)

// ErrBusy is returned when a submit is already in flight.
var ErrBusy = errors.New("visit submit already in flight")

// Creator is the slice of the API the wizard depends on.
type Creator interface {
	CreateVisit(ctx context.Context, form map[string]string) (*api.Visit, error)
}

// Wizard drives the booking form through its four steps.
type Wizard struct {
	mu   sync.Mutex
	step int
	form Form
	busy bool

	client Creator
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger
}

// NewWizard creates a wizard at step 1 with default urgency.
func NewWizard(client Creator, db *store.DB, b *bus.Bus, logger *zap.Logger) *Wizard {
	return &Wizard{
		step:   StepPatient,
		form:   Form{Urgency: "normal"},
		client: client,
		db:     db,
		bus:    b,
		logger: logger,
	}
}

// Step returns the current step (1..4).
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Form returns a copy of the collected data.
func (w *Wizard) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// Update applies a mutation to the form. Field edits never advance steps.
func (w *Wizard) Update(mutate func(*Form)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	mutate(&w.form)
}

// Next validates the current step and advances. Step 4 has no next.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.validateStep(w.step); err != nil {
		return err
	}
	if w.step >= StepSummary {
		return fmt.Errorf("already at final step")
	}
	w.step++
	return nil
}

// Back returns to the previous step without touching the form.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepPatient {
		w.step--
	}
}

func (w *Wizard) validateStep(step int) error {
	switch step {
	case StepPatient:
		if w.form.Name == "" {
			return &api.ValidationError{Field: "name", Reason: "required"}
		}
		if !nationalCodeRegexp.MatchString(w.form.NationalCode) {
			return &api.ValidationError{Field: "national_code", Reason: "must be 10 digits"}
		}
		if w.form.InsuranceType == "" {
			return &api.ValidationError{Field: "insurance_type", Reason: "required"}
		}
	case StepPrimary:
		if w.form.GeneralSymptoms == "" {
			return &api.ValidationError{Field: "general_symptoms", Reason: "select a general symptom"}
		}
	}
	return nil
}

// SummaryRow is one line of the read-only confirmation step.
type SummaryRow struct {
	Label string
	Value string
}

// Summary resolves the stored values to display labels for step 4.
func (w *Wizard) Summary() []SummaryRow {
	w.mu.Lock()
	f := w.form
	w.mu.Unlock()

	return []SummaryRow{
		{Label: "Name", Value: f.Name},
		{Label: "National code", Value: f.NationalCode},
		{Label: "Insurance", Value: Label("insurance_type", f.InsuranceType)},
		{Label: "Urgency", Value: Label("urgency", f.Urgency)},
		{Label: "General symptoms", Value: Label("general_symptoms", f.GeneralSymptoms)},
		{Label: "Neurological", Value: Label("neurological_symptoms", f.NeurologicalSymptoms)},
		{Label: "Cardiovascular", Value: Label("cardiovascular_symptoms", f.CardiovascularSymptoms)},
		{Label: "Gastrointestinal", Value: Label("gastrointestinal_symptoms", f.GastrointestinalSymptoms)},
		{Label: "Respiratory", Value: Label("respiratory_symptoms", f.RespiratorySymptoms)},
		{Label: "Description", Value: f.Description},
	}
}

// Payload builds the submission object, field-for-field from the form.
func (w *Wizard) Payload() map[string]string {
	w.mu.Lock()
	f := w.form
	w.mu.Unlock()

	return map[string]string{
		"name":                      f.Name,
		"national_code":             f.NationalCode,
		"insurance_type":            f.InsuranceType,
		"urgency":                   f.Urgency,
		"general_symptoms":          f.GeneralSymptoms,
		"neurological_symptoms":     f.NeurologicalSymptoms,
		"cardiovascular_symptoms":   f.CardiovascularSymptoms,
		"gastrointestinal_symptoms": f.GastrointestinalSymptoms,
		"respiratory_symptoms":      f.RespiratorySymptoms,
		"description":               f.Description,
	}
}

// Submit sends the aggregated form from the summary step. On success the
// wizard resets for the next booking and the payload is recorded locally.
// Server field errors come back as *api.DomainError with Fields populated.
func (w *Wizard) Submit(ctx context.Context) (*api.Visit, error) {
	w.mu.Lock()
	if w.step != StepSummary {
		step := w.step
		w.mu.Unlock()
		return nil, fmt.Errorf("cannot submit from step %d", step)
	}
	if w.busy {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.busy = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	payload := w.Payload()
	created, err := w.client.CreateVisit(ctx, payload)
	if err != nil {
		w.logger.Warn("visit submit failed", zap.Error(err))
		return nil, err
	}

	if w.db != nil {
		if raw, err := json.Marshal(payload); err == nil {
			if err := w.db.RecordVisitSubmission(string(raw)); err != nil {
				w.logger.Warn("record visit failed", zap.Error(err))
			}
		}
	}
	if w.bus != nil {
		w.bus.Publish(bus.Event{Kind: bus.KindVisitSubmitted, Timestamp: time.Now(), Payload: created})
	}

	w.mu.Lock()
	w.step = StepPatient
	w.form = Form{Urgency: "normal"}
	w.mu.Unlock()

	return created, nil
}
