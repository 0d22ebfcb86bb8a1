// Package events publishes the storefront's analytics feed: cart snapshots and
// placed orders. Delivery is best effort; failures are logged and never reach
// the caller.
package events

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

const Producer = "storefront-go"

type Emitter struct {
	pub    Publisher
	seq    SequenceRepository
	logger zerolog.Logger
	now    func() time.Time

	entropyMu sync.Mutex
	entropy   io.Reader
}

func NewEmitter(pub Publisher, seq SequenceRepository, logger zerolog.Logger) *Emitter {
	if pub == nil {
		pub = Noop{}
	}
	if seq == nil {
		seq = NewMemorySequences()
	}
	return &Emitter{
		pub:     pub,
		seq:     seq,
		logger:  logger,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (e *Emitter) CartUpdated(ctx context.Context, ev CartUpdated) {
	emit(ctx, e, CartUpdatedEvent, CartUpdatedRoutingKey, ev.UserID, ev)
}

func (e *Emitter) OrderPlaced(ctx context.Context, ev OrderPlaced) {
	emit(ctx, e, OrderPlacedEvent, OrderPlacedRoutingKey, ev.UserID, ev)
}

func (e *Emitter) newID(t time.Time) string {
	e.entropyMu.Lock()
	defer e.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), e.entropy).String()
}

func emit[T any](ctx context.Context, e *Emitter, name, routingKey, partitionKey string, payload T) {
	log := e.logger.With().Str("event", name).Str("partitionKey", partitionKey).Logger()

	now := e.now().UTC()
	env := Envelope[T]{
		EventName:     name,
		EventVersion:  eventVersion,
		EventID:       e.newID(now),
		CorrelationID: middleware.GetCorrelationID(ctx),
		Producer:      Producer,
		PartitionKey:  partitionKey,
		OccurredAt:    now,
		Payload:       payload,
	}
	if seq, err := e.seq.NextSequence(ctx, partitionKey); err != nil {
		log.Warn().Err(err).Msg("event sequence unavailable")
	} else {
		env.Sequence = &seq
	}

	body, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Msg("encode event failed")
		return
	}
	if err := e.pub.Publish(ctx, routingKey, body); err != nil {
		log.Warn().Err(err).Msg("publish event failed")
	}
}
