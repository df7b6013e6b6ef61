// Package notify decouples confirmation delivery from the submission
// response path. Notifications are handed to a buffered channel and
// drained by a background worker; a failed or dropped notification can
// never affect a persistence-confirmed success response.
package notify

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stjtech/admissions/internal/app/models"
	"github.com/stjtech/admissions/internal/pkg/email"
)

// Notifier accepts accepted applications for best-effort notification.
type Notifier interface {
	// Enqueue never blocks the caller; if the queue is full the
	// notification is dropped and logged.
	Enqueue(app *models.Application)
}

// EmailNotifier sends confirmation emails through a background worker.
type EmailNotifier struct {
	emails email.Service
	logger zerolog.Logger
	queue  chan *models.Application
	done   chan struct{}
	once   sync.Once
}

// NewEmailNotifier starts the worker goroutine.
func NewEmailNotifier(emails email.Service, queueSize int, logger zerolog.Logger) *EmailNotifier {
	if queueSize < 1 {
		queueSize = 1
	}
	n := &EmailNotifier{
		emails: emails,
		logger: logger,
		queue:  make(chan *models.Application, queueSize),
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

// Enqueue hands an application to the worker without blocking.
func (n *EmailNotifier) Enqueue(app *models.Application) {
	select {
	case n.queue <- app:
	default:
		n.logger.Warn().
			Str("reference", app.ReferenceNumber).
			Msg("Notification queue full, dropping confirmation email")
	}
}

// Close stops accepting notifications and waits for the worker to
// drain what is already queued.
func (n *EmailNotifier) Close() {
	n.once.Do(func() {
		close(n.queue)
		<-n.done
	})
}

func (n *EmailNotifier) run() {
	defer close(n.done)
	for app := range n.queue {
		messageID := uuid.New().String()
		if err := n.emails.SendConfirmationEmail(app); err != nil {
			n.logger.Error().Err(err).
				Str("messageId", messageID).
				Str("reference", app.ReferenceNumber).
				Str("toEmail", app.PersonalInfo.Email).
				Msg("Failed to send confirmation email")
			continue
		}
		n.logger.Info().
			Str("messageId", messageID).
			Str("reference", app.ReferenceNumber).
			Msg("Confirmation email dispatched")
	}
}
