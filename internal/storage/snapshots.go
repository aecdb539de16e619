package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/clocktower/grimoire-go/internal/game/grimoire"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a game has no stored snapshot.
	ErrNotFound = errors.New("snapshot not found")
	// ErrChecksumMismatch is returned when a stored snapshot fails verification.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
)

// Querier is the subset of pgxpool.Pool the repository uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SnapshotRepository stores one snapshot per game, day, night and phase.
type SnapshotRepository struct {
	db     Querier
	logger *zap.Logger
}

// NewSnapshotRepository creates a repository over db, usually DB.Pool.
func NewSnapshotRepository(db Querier, logger *zap.Logger) *SnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotRepository{db: db, logger: logger}
}

const upsertSnapshot = `
INSERT INTO grimoire_snapshots (game_id, day, night, phase, checksum, data, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (game_id, day, night, phase)
DO UPDATE SET checksum = EXCLUDED.checksum, data = EXCLUDED.data, recorded_at = EXCLUDED.recorded_at`

const latestSnapshot = `
SELECT checksum, data FROM grimoire_snapshots
WHERE game_id = $1
ORDER BY recorded_at DESC
LIMIT 1`

// Save stores snap with its checksum, replacing any snapshot of the same
// game position.
func (r *SnapshotRepository) Save(ctx context.Context, snap *grimoire.Snapshot) error {
	sum, err := snap.ComputeChecksum()
	if err != nil {
		return err
	}
	data, err := snap.Serialize()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, upsertSnapshot,
		snap.GameID, snap.Day, snap.Night, snap.Phase, sum.Hash, data, snap.Timestamp); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	r.logger.Debug("snapshot saved",
		zap.String("game_id", snap.GameID),
		zap.Int("day", snap.Day),
		zap.String("phase", snap.Phase),
		zap.String("checksum", sum.Hash))
	return nil
}

// Latest loads the most recent snapshot of a game and verifies it.
func (r *SnapshotRepository) Latest(ctx context.Context, gameID string) (*grimoire.Snapshot, error) {
	var (
		hash string
		data []byte
	)
	if err := r.db.QueryRow(ctx, latestSnapshot, gameID).Scan(&hash, &data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, gameID)
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	snap, err := grimoire.Deserialize(data)
	if err != nil {
		return nil, err
	}
	ok, err := snap.VerifyChecksum(&grimoire.Checksum{Hash: hash, Version: grimoire.ChecksumVersion})
	if err != nil {
		return nil, err
	}
	if !ok {
		r.logger.Warn("stored snapshot failed verification", zap.String("game_id", gameID))
		return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, gameID)
	}
	return snap, nil
}
