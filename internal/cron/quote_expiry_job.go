package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omexsoft/b2b-backend/pkg/logger"
)

type quoteExpirer interface {
	ExpireDue(ctx context.Context, customerID *uuid.UUID, now time.Time) (int64, error)
}

// QuoteExpiryJobParams configure the quote expiry sweep.
type QuoteExpiryJobParams struct {
	Logger *logger.Logger
	Quotes quoteExpirer
	Now    func() time.Time
}

// NewQuoteExpiryJob builds the job that marks overdue draft and sent quotes
// expired. Reads already expire quotes lazily; the sweep keeps listings and
// reporting honest for quotes nobody touches.
func NewQuoteExpiryJob(params QuoteExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Quotes == nil {
		return nil, fmt.Errorf("quote store required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &quoteExpiryJob{
		logg:   params.Logger,
		quotes: params.Quotes,
		now:    now,
	}, nil
}

type quoteExpiryJob struct {
	logg   *logger.Logger
	quotes quoteExpirer
	now    func() time.Time
}

func (j *quoteExpiryJob) Name() string { return "quote-expiry" }

func (j *quoteExpiryJob) Run(ctx context.Context) error {
	expired, err := j.quotes.ExpireDue(ctx, nil, j.now().UTC())
	if err != nil {
		return fmt.Errorf("expire due quotes: %w", err)
	}
	if expired > 0 {
		j.logg.Info(j.logg.WithField(ctx, "expired", expired), "quotes expired")
	}
	return nil
}
