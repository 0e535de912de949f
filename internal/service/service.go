package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/es"
	"github.com/hatef97/office-supplies-website/internal/logging"
)

const publishTimeout = 5 * time.Second

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// ProductIndexer mirrors products into a full-text index.
type ProductIndexer interface {
	IndexProduct(ctx context.Context, doc es.ProductDocument) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProductIDs(ctx context.Context, query string, from, size int) ([]uint, int64, error)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID  uint
	IsStaff bool
}

// publish is best effort: a broker outage must not fail a committed write.
func publish(ctx context.Context, pub EventPublisher, topic, key string, event map[string]any) {
	if pub == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := pub.PublishEvent(pctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("topic", topic).
			Interface("event_type", event["type"]).
			Msg("publish_event_failed")
	}
}

// notFoundOr maps gorm.ErrRecordNotFound to a NOT_FOUND error for the named entity
// and anything else to an internal error.
func notFoundOr(err error, what, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what)
	}
	if apperr.As(err) != nil {
		return err
	}
	return apperr.Internal(err, op)
}

func wrapInternal(err error, op string) error {
	if apperr.As(err) != nil {
		return err
	}
	return apperr.Internal(err, op)
}
