package grimoire

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const historyVersion = 1

// History is the sequence of snapshots recorded for one game, usually one
// per day boundary.
type History struct {
	GameID string
	States []*Snapshot
	mu     sync.RWMutex
}

// NewHistory creates an empty history.
func NewHistory(gameID string) *History {
	return &History{GameID: gameID}
}

// Record appends a snapshot.
func (h *History) Record(s *Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.States = append(h.States, s)
}

// Size returns the number of recorded snapshots.
func (h *History) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.States)
}

// At returns the snapshot at index, or nil.
func (h *History) At(index int) *Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if index >= 0 && index < len(h.States) {
		return h.States[index]
	}
	return nil
}

// Latest returns the last snapshot, or nil.
func (h *History) Latest() *Snapshot {
	return h.At(h.Size() - 1)
}

type historyMetadata struct {
	GameID     string
	Timestamp  time.Time
	Version    int
	StateCount int
}

// Filename returns the file a game's history is saved to in directory.
func Filename(directory, gameID string) string {
	return filepath.Join(directory, fmt.Sprintf("%s.grimoire.gz", gameID))
}

// SaveToFile writes the history as gzipped gob to directory and returns the path.
func (h *History) SaveToFile(directory string, logger *zap.Logger) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	path := Filename(directory, h.GameID)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	encoder := gob.NewEncoder(zw)
	meta := historyMetadata{
		GameID:     h.GameID,
		Timestamp:  time.Now().UTC(),
		Version:    historyVersion,
		StateCount: len(h.States),
	}
	if err := encoder.Encode(&meta); err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i, s := range h.States {
		if err := encoder.Encode(s); err != nil {
			return "", fmt.Errorf("failed to encode state %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to flush history: %w", err)
	}

	if logger != nil {
		logger.Info("saved grimoire history",
			zap.String("game_id", h.GameID),
			zap.Int("state_count", len(h.States)),
			zap.String("path", path))
	}
	return path, nil
}

// LoadHistoryFromFile reads a history written by SaveToFile.
func LoadHistoryFromFile(directory, gameID string) (*History, error) {
	file, err := os.Open(Filename(directory, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer zr.Close()

	decoder := gob.NewDecoder(zr)
	var meta historyMetadata
	if err := decoder.Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if meta.Version != historyVersion {
		return nil, fmt.Errorf("unsupported history version: %d", meta.Version)
	}

	h := NewHistory(meta.GameID)
	for i := 0; i < meta.StateCount; i++ {
		var s Snapshot
		if err := decoder.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode state %d: %w", i, err)
		}
		h.States = append(h.States, &s)
	}
	return h, nil
}
