// Package client packages a validated form and submits it, either to a
// local store (allocating the reference number itself) or over HTTP to
// the admissions service (where the server-issued reference number is
// the only authoritative one).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/stjtech/admissions/internal/client/localstore"
	"github.com/stjtech/admissions/internal/form"
	"github.com/stjtech/admissions/internal/pkg/refnum"
)

// Mode selects where submissions go.
type Mode int

const (
	// LocalMode appends to the local store and allocates the
	// reference number locally.
	LocalMode Mode = iota
	// RemoteMode posts to the admissions service; only the server may
	// issue the reference number.
	RemoteMode
)

// View is the client's current screen.
type View int

const (
	ViewForm View = iota
	ViewConfirmation
)

// ErrSubmissionInFlight is returned when Submit is called while a
// previous submission has not finished. The duplicate attempt is
// ignored, never double-sent.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// User-facing submission messages.
const (
	msgValidationFailed = "Please correct the highlighted fields"
	msgGenericFailure   = "An error occurred while submitting your application. Please try again."
	msgLocalSuccess     = "Application submitted successfully"
)

// Outcome is the user-visible result of a submission attempt.
type Outcome struct {
	Success         bool
	Message         string
	ReferenceNumber string
	Errors          []string
}

// Submitter packages form state and submits it. A Submitter serves one
// form instance; validation and submission run on user events, with at
// most one submission pending at a time.
type Submitter struct {
	form      *form.Form
	mode      Mode
	store     localstore.Store
	generator *refnum.Generator
	client    *http.Client
	endpoint  string
	logger    zerolog.Logger

	inFlight atomic.Bool
	view     atomic.Int32
}

// NewLocalSubmitter creates a Submitter in local-only mode.
func NewLocalSubmitter(f *form.Form, store localstore.Store, generator *refnum.Generator, logger zerolog.Logger) *Submitter {
	return &Submitter{
		form:      f,
		mode:      LocalMode,
		store:     store,
		generator: generator,
		logger:    logger,
	}
}

// NewRemoteSubmitter creates a Submitter posting to the given endpoint.
func NewRemoteSubmitter(f *form.Form, endpoint string, httpClient *http.Client, logger zerolog.Logger) *Submitter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Submitter{
		form:     f,
		mode:     RemoteMode,
		client:   httpClient,
		endpoint: endpoint,
		logger:   logger,
	}
}

// Form returns the form this submitter serves.
func (s *Submitter) Form() *form.Form { return s.form }

// View returns the current screen. It becomes ViewConfirmation only
// after a successful submission.
func (s *Submitter) View() View { return View(s.view.Load()) }

// Submit validates the form and, if it passes, sends the submission.
// The form's entered values are preserved on every failure path so the
// user can correct and retry without re-entering data.
func (s *Submitter) Submit(ctx context.Context) (Outcome, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Outcome{}, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	if !s.form.ValidateForm() {
		errs := s.form.Errors()
		msgs := make([]string, 0, len(errs))
		for name, msg := range errs {
			msgs = append(msgs, name+": "+msg)
		}
		return Outcome{Success: false, Message: msgValidationFailed, Errors: msgs}, nil
	}

	var outcome Outcome
	switch s.mode {
	case LocalMode:
		outcome = s.submitLocal()
	case RemoteMode:
		outcome = s.submitRemote(ctx)
	}

	if outcome.Success {
		s.view.Store(int32(ViewConfirmation))
	}
	return outcome, nil
}

func (s *Submitter) submitLocal() Outcome {
	record := localstore.Record{
		SubmissionRequest: *s.form.ToRequest(),
		ReferenceNumber:   s.generator.Generate(),
		SubmittedAt:       time.Now(),
	}

	if err := s.store.Append(record); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save application locally")
		return Outcome{Success: false, Message: msgGenericFailure}
	}

	return Outcome{
		Success:         true,
		Message:         msgLocalSuccess,
		ReferenceNumber: record.ReferenceNumber,
	}
}

// remoteResponse mirrors the service's submission response body.
type remoteResponse struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	ReferenceNumber string   `json:"referenceNumber"`
	Errors          []string `json:"errors"`
}

func (s *Submitter) submitRemote(ctx context.Context) Outcome {
	body, err := json.Marshal(s.form.ToRequest())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode submission")
		return Outcome{Success: false, Message: msgGenericFailure}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Outcome{Success: false, Message: msgGenericFailure}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Str("endpoint", s.endpoint).Msg("Submission request failed")
		return Outcome{Success: false, Message: msgGenericFailure}
	}
	defer resp.Body.Close()

	var parsed remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		s.logger.Error().Err(err).Msg("Malformed submission response")
		return Outcome{Success: false, Message: msgGenericFailure}
	}

	if !parsed.Success {
		message := parsed.Message
		if message == "" {
			message = msgGenericFailure
		}
		return Outcome{Success: false, Message: message, Errors: parsed.Errors}
	}

	// The reference number is authoritative from the server; the
	// client never invents one in remote mode.
	return Outcome{
		Success:         true,
		Message:         parsed.Message,
		ReferenceNumber: parsed.ReferenceNumber,
	}
}
