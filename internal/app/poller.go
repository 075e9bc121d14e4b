package app

import (
	"context"
	"fmt"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const failureTemplate = "Сбой в работе программы: %v"

// StatusFetcher queries the review API once.
type StatusFetcher interface {
	FetchStatuses(ctx context.Context, fromDate int64) (any, error)
}

// MessageSender delivers a message to the tracking chat.
type MessageSender interface {
	Send(ctx context.Context, kind notification.Kind, text string) (*domainTelegram.Delivery, error)
}

// Waiter blocks between iterations.
type Waiter interface {
	Wait(ctx context.Context) error
}

// PollerOptions tune the poll loop.
type PollerOptions struct {
	// StartCursor is the from_date of the first poll, normally the process start time.
	StartCursor int64
	// NotifyRepeatedStatus re-sends the newest status on every non-empty poll,
	// even when it matches the last delivered one.
	NotifyRepeatedStatus bool
}

// Poller runs the poll-validate-diff-notify loop. It owns the cursor and the
// dedup state; nothing else touches them, and iterations never overlap.
type Poller struct {
	fetcher  StatusFetcher
	notifier MessageSender
	waiter   Waiter
	logger   *logrus.Entry

	notifyRepeated bool
	cursor         int64
	lastFailure    string // last failure message that reached the chat
	lastStatus     string // last status message that reached the chat
}

func NewPoller(fetcher StatusFetcher, notifier MessageSender, waiter Waiter, logger *logrus.Entry, opts PollerOptions) *Poller {
	return &Poller{
		fetcher:        fetcher,
		notifier:       notifier,
		waiter:         waiter,
		logger:         logger,
		notifyRepeated: opts.NotifyRepeatedStatus,
		cursor:         opts.StartCursor,
	}
}

// Cursor returns the from_date the next poll will use.
func (p *Poller) Cursor() int64 {
	return p.cursor
}

// Run polls until ctx is cancelled. Cancellation is only observed between
// iterations; an iteration in progress always completes.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.WithField("from_date", p.cursor).Info("Poll loop started")
	for {
		p.RunOnce(context.WithoutCancel(ctx))
		if err := p.waiter.Wait(ctx); err != nil {
			p.logger.WithError(err).Info("Poll loop stopped")
			return err
		}
	}
}

// RunOnce performs a single iteration. Every error is contained here.
func (p *Poller) RunOnce(ctx context.Context) {
	log := p.logger.WithFields(logrus.Fields{
		"poll_id":   uuid.NewString(),
		"from_date": p.cursor,
	})
	if err := p.poll(ctx, log); err != nil {
		p.reportFailure(ctx, log, err)
	}
}

func (p *Poller) poll(ctx context.Context, log *logrus.Entry) error {
	payload, err := p.fetcher.FetchStatuses(ctx, p.cursor)
	if err != nil {
		return err
	}
	batch, err := homework.CheckResponse(payload)
	if err != nil {
		return err
	}

	if record, ok := homework.Newest(batch); ok {
		message, err := homework.ParseStatus(record)
		if err != nil {
			return err
		}
		if err := p.reportStatus(ctx, log, message); err != nil {
			return err
		}
	} else {
		log.Debug("No new homework statuses in response")
	}

	if date, ok := homework.CurrentDate(payload); ok {
		p.cursor = date
	} else {
		log.Warn("Response has no current_date, keeping cursor")
	}
	return nil
}

func (p *Poller) reportStatus(ctx context.Context, log *logrus.Entry, message string) error {
	if !p.notifyRepeated && message == p.lastStatus {
		log.Debugf("Status already reported: %s", message)
		return nil
	}
	if _, err := p.notifier.Send(ctx, notification.KindStatusChange, message); err != nil {
		return err
	}
	p.lastStatus = message
	return nil
}

// reportFailure sends each distinct failure message at most once in a row.
// The dedup state only moves when the chat actually received the message.
func (p *Poller) reportFailure(ctx context.Context, log *logrus.Entry, cause error) {
	message := fmt.Sprintf(failureTemplate, cause)
	log.WithError(cause).Error(message)

	if message == p.lastFailure {
		log.Debug("Failure already reported, not sending again")
		return
	}
	if _, err := p.notifier.Send(ctx, notification.KindFailure, message); err != nil {
		log.WithError(err).Error("Failed to report failure to chat")
		return
	}
	p.lastFailure = message
}
