// Package outbox drains the audit outbox table into Kafka. Entries are
// claimed with row locks so multiple instances can run the worker without
// publishing duplicates.
package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 100
)

// Worker polls audit_outbox and publishes pending rows to Kafka.
type Worker struct {
	db           *sql.DB
	client       *kgo.Client
	topic        string
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int
}

type Option func(w *Worker)

func WithPollInterval(d time.Duration) Option {
	return func(w *Worker) {
		w.pollInterval = d
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		w.batchSize = n
	}
}

// New constructs a Worker.
func New(db *sql.DB, client *kgo.Client, topic string, logger *slog.Logger, opts ...Option) *Worker {
	w := &Worker{
		db:           db,
		client:       client,
		topic:        topic,
		logger:       logger,
		pollInterval: defaultPollInterval,
		batchSize:    defaultBatchSize,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// EnsureTopic creates the audit topic if the broker does not have it yet.
// Already-exists responses are not errors.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, 3, 1, nil, topic)
	if err != nil {
		if errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create audit topic: %w", err)
	}
	return nil
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drainOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.ErrorContext(ctx, "audit outbox drain failed", "error", err)
			}
		}
	}
}

type outboxRow struct {
	id      uuid.UUID
	key     uuid.UUID
	payload []byte
}

// drainOnce claims a batch of unpublished rows, publishes them, and marks
// them published in the same transaction. SKIP LOCKED keeps concurrent
// workers from fighting over the same rows.
func (w *Worker) drainOnce(ctx context.Context) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin outbox tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		SELECT id, aggregate_id, payload
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := tx.QueryContext(ctx, query, w.batchSize)
	if err != nil {
		return fmt.Errorf("claim outbox rows: %w", err)
	}

	var batch []outboxRow
	for rows.Next() {
		var r outboxRow
		if err := rows.Scan(&r.id, &r.key, &r.payload); err != nil {
			rows.Close()
			return fmt.Errorf("scan outbox row: %w", err)
		}
		batch = append(batch, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate outbox rows: %w", err)
	}
	if len(batch) == 0 {
		return nil
	}

	records := make([]*kgo.Record, 0, len(batch))
	ids := make([]uuid.UUID, 0, len(batch))
	for _, r := range batch {
		records = append(records, &kgo.Record{
			Topic: w.topic,
			Key:   []byte(r.key.String()),
			Value: r.payload,
		})
		ids = append(ids, r.id)
	}

	if err := w.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("publish audit batch: %w", err)
	}

	markQuery := `UPDATE audit_outbox SET published_at = $1 WHERE id = ANY($2)`
	if _, err := tx.ExecContext(ctx, markQuery, time.Now(), pq.Array(ids)); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit outbox tx: %w", err)
	}

	w.logger.InfoContext(ctx, "audit events published", "count", len(batch))
	return nil
}
