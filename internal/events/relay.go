package events

import (
	"context"
	"sync"
	"time"
)

// Relay polls the transactional outbox and publishes pending events after
// their originating transactions commit. Delivery failures never affect the
// booking that produced the event; failed events are retried on later ticks
// and dropped with an error log once MaxRetries is exhausted.
type Relay struct {
	repo      OutboxRepository
	publisher Publisher
	txManager TxManager
	log       Logger

	pollInterval time.Duration
	batchSize    int
	maxRetries   int

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// RelayOptions configures the relay loop.
type RelayOptions struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
}

// NewRelay creates an outbox relay.
func NewRelay(repo OutboxRepository, publisher Publisher, txManager TxManager, log Logger, opts RelayOptions) *Relay {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 200 * time.Millisecond
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}

	return &Relay{
		repo:         repo,
		publisher:    publisher,
		txManager:    txManager,
		log:          log,
		pollInterval: opts.PollInterval,
		batchSize:    opts.BatchSize,
		maxRetries:   opts.MaxRetries,
		stop:         make(chan struct{}),
	}
}

// Start launches the polling loop in a background goroutine.
func (r *Relay) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.pollInterval)
		defer ticker.Stop()

		r.log.Info("outbox relay started, poll interval %s", r.pollInterval)

		for {
			select {
			case <-r.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.relayOnce(ctx); err != nil {
					r.log.Error("outbox relay tick failed: %v", err)
				}
			}
		}
	}()
}

// Stop shuts the loop down and waits for the in-flight tick to finish.
func (r *Relay) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	r.wg.Wait()
}

// relayOnce drains one batch. The list and the publish bookkeeping run in a
// single transaction so SKIP LOCKED keeps concurrent relay instances off the
// same rows.
func (r *Relay) relayOnce(ctx context.Context) error {
	return r.txManager.Do(ctx, func(txCtx context.Context) error {
		pending, err := r.repo.ListUnpublished(txCtx, r.batchSize)
		if err != nil {
			return err
		}

		for _, event := range pending {
			if event.Retries >= r.maxRetries {
				r.log.Error("outbox event %s (%s) dropped after %d attempts", event.ID, event.Topic, event.Retries)
				if err := r.repo.MarkPublished(txCtx, event.ID); err != nil {
					return err
				}
				continue
			}

			if err := r.publisher.Publish(txCtx, event); err != nil {
				r.log.Error("outbox event %s (%s) publish failed: %v", event.ID, event.Topic, err)
				if err := r.repo.MarkFailed(txCtx, event.ID); err != nil {
					return err
				}
				continue
			}

			if err := r.repo.MarkPublished(txCtx, event.ID); err != nil {
				return err
			}
			r.log.Debug("outbox event %s published to %s", event.ID, event.Topic)
		}

		return nil
	})
}
