// Package store provides focused, single-concern data access stores
// for the TraceOps operations database.
//
// Each store owns one domain (activity, tasks, batches, label specs,
// stability, etc.) and embeds shared helpers (Pool, logger) via the
// Base struct. Stores never import each other — shared logic lives in
// this file or in dedicated helper files.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/traceopshq/traceops/internal/dbpool"
	"github.com/traceopshq/traceops/internal/models"

	"github.com/sirupsen/logrus"
)

const defaultQueryTimeout = 30 * time.Second

// NotifyChannel is the Postgres channel stores publish change
// notifications on. The db package LISTENs on the same channel.
const NotifyChannel = "ops_changes"

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// notify sends a pg_notify on the ops_changes channel (best-effort,
// post-commit). The payload identifies the changed entity so the
// websocket hub can route the event to subscribers.
func (b *Base) notify(entityType, entityID, op string) {
	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"entity_type": entityType,
		"entity_id":   entityID,
		"op":          op,
	})
	b.notifyPayload(payload, op+" "+entityType)
}

// notifyPayload publishes a pre-built payload on the ops_changes channel.
// The payload must carry entity_type and entity_id keys or the bridge
// will drop it as unroutable.
func (b *Base) notifyPayload(payload []byte, desc string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify('"+NotifyChannel+"', $1)", string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + desc + " notification")
	}
}

// GetUserByAPIKey looks up a user ID by API key hash.
func (b *Base) GetUserByAPIKey(ctx context.Context, apiKey string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(apiKey))
	apiKeyHash := hex.EncodeToString(hash[:])

	var userID string

	err := b.Pool.QueryRow(ctx, "SELECT id FROM users WHERE api_key_hash = $1", apiKeyHash).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("looking up user by API key: %w", err)
	}

	return userID, nil
}

// translateError maps driver-level failures to domain sentinels so the
// API layer never inspects pgconn errors directly.
func translateError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return models.ErrDuplicateKey
	}

	return err
}

// foreignKeyToNotFound maps foreign key violations to the referenced
// owner's not-found sentinel.
func foreignKeyToNotFound(err error, notFound error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return notFound
	}

	return err
}
