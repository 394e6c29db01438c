// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package migrate contains the per-kind operation drivers. Each
// driver iterates its import list in input order, resolves
// destination ids through the manifest, issues the creation call, and
// records one journal row per item (two for the custom-view
// pipeline). Per-item failures are recorded and never abort the run.
package migrate

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"

	"github.com/sitelift/sitelift/internal/journal"
	"github.com/sitelift/sitelift/internal/logging"
	"github.com/sitelift/sitelift/internal/models"
	"github.com/sitelift/sitelift/internal/restapi"
)

// ErrNotInManifest marks an item whose destination counterpart could
// not be resolved. Drivers return it before any HTTP call is made and
// the runner records the item as skipped.
var ErrNotInManifest = errors.New("target object not found on destination site")

// Outcome identifies a processed row for the journal. Identity fields
// are filled even when the operation fails.
type Outcome struct {
	SourceID      string
	DestinationID string
	Name          string
	Message       string
}

// Operation performs one item's API work and describes it.
type Operation[T any] func(ctx context.Context, item T) (Outcome, error)

// retryable reports whether the error is a throttling or server-side
// API failure worth retrying.
func retryable(err error) bool {
	var apiErr *restapi.APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

// newBreaker builds the circuit breaker shared by one driver run. It
// opens after a run of consecutive API failures so a dead destination
// fails the remaining items fast instead of timing each one out.
// Manifest misses are not failures; they must never trip it.
func newBreaker(kind models.ContentKind) *gobreaker.CircuitBreaker[Outcome] {
	return gobreaker.NewCircuitBreaker[Outcome](gobreaker.Settings{
		Name: string(kind),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotInManifest)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("driver", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("Driver circuit breaker state changed")
		},
	})
}

// newBackOff is the per-item retry policy: short exponential waits,
// four attempts at most. The interval doubles as rate hygiene on top
// of the client's token bucket.
func newBackOff(ctx context.Context) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 30 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(policy, 3), ctx)
}

// Runner executes one driver's operation over an import list. The
// ident extractor names an item for the journal when the operation
// itself never ran, such as a rejection from an open breaker.
type Runner[T any] struct {
	kind    models.ContentKind
	journal *journal.Journal
	ident   func(T) Outcome
	breaker *gobreaker.CircuitBreaker[Outcome]
	backOff func(context.Context) backoff.BackOff
}

// NewRunner builds a runner journaling under the given kind.
func NewRunner[T any](kind models.ContentKind, j *journal.Journal, ident func(T) Outcome) *Runner[T] {
	return &Runner[T]{kind: kind, journal: j, ident: ident, breaker: newBreaker(kind), backOff: newBackOff}
}

// execute runs op for one item through the retry policy and the
// breaker. Non-retryable errors are surfaced immediately. An open
// breaker short-circuits with a zero outcome; identity is restored
// from the extractor so the journal row still names the item.
func (r *Runner[T]) execute(ctx context.Context, item T, op Operation[T]) (Outcome, error) {
	out, err := r.breaker.Execute(func() (Outcome, error) {
		return backoff.RetryWithData(func() (Outcome, error) {
			out, err := op(ctx, item)
			if err != nil && !retryable(err) {
				return out, backoff.Permanent(err)
			}
			return out, err
		}, r.backOff(ctx))
	})
	if err != nil && out.SourceID == "" {
		out = r.ident(item)
	}
	return out, err
}

// Run processes items in input order, recording one journal row each.
// It returns an error only when the context is cancelled; per-item
// failures land in the journal and processing continues.
func (r *Runner[T]) Run(ctx context.Context, items []T, op Operation[T]) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := r.execute(ctx, item, op)
		if err != nil {
			r.journal.Error(out.SourceID, out.Name, err.Error())
			logging.Err(err).Str("kind", string(r.kind)).
				Str("sourceId", out.SourceID).Str("name", out.Name).
				Msg("Item failed")
			continue
		}
		r.journal.Success(out.SourceID, out.DestinationID, out.Name, out.Message)
	}
	return nil
}
