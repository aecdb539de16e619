package grimoire

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
)

// ChecksumVersion is the version of the canonical representation.
const ChecksumVersion = 2

// Checksum identifies the game state of a snapshot.
type Checksum struct {
	Hash    string // SHA-256 of the canonical representation
	Version int
}

// ComputeChecksum hashes a canonical representation of the snapshot. Effect
// IDs and the timestamp are excluded so that identical games hash alike.
func (s *Snapshot) ComputeChecksum() (*Checksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(s.canonical())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &Checksum{Hash: hex.EncodeToString(hash.Sum(nil)), Version: ChecksumVersion}, nil
}

func (s *Snapshot) canonical() string {
	var buf bytes.Buffer
	// Free-text fields are quoted so no field can imitate a separator.
	fmt.Fprintf(&buf, "GAME:%q|%q|%d|%d\n", s.GameID, s.Phase, s.Day, s.Night)
	write := func(tag string, views []PlayerView) {
		// Seating order is significant, so it is not sorted.
		for _, p := range views {
			fmt.Fprintf(&buf, "%s:%q|%q|%d|%q|%q|%q|%t|%t|%d|%d|%t\n",
				tag, p.ID, p.Name, p.Position, p.Character, p.Alignment, p.Type,
				p.Dead, p.Functioning, p.DeadVotes, p.NominationsToday, p.HasBeenNominated)
			// Stack order is the exclusive-search tie-break, so it is kept too.
			for _, e := range p.Effects {
				fmt.Fprintf(&buf, "  EFFECT:%q|%q|%q|%t|%t\n", e.Kind, e.Name, e.Source, e.Enabled, e.Appears)
			}
		}
	}
	write("PLAYER", s.Players)
	write("STORYTELLER", s.Storytellers)
	return buf.String()
}

// VerifyChecksum reports whether the snapshot still matches expected.
func (s *Snapshot) VerifyChecksum(expected *Checksum) (bool, error) {
	computed, err := s.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Version == expected.Version && computed.Hash == expected.Hash, nil
}

// Serialize gob-encodes the snapshot.
func (s *Snapshot) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize decodes a gob-encoded snapshot.
func Deserialize(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}

// ValidateRoundtrip serializes and decodes the snapshot and checks that the
// checksum survives.
func (s *Snapshot) ValidateRoundtrip() error {
	want, err := s.ComputeChecksum()
	if err != nil {
		return err
	}
	data, err := s.Serialize()
	if err != nil {
		return err
	}
	decoded, err := Deserialize(data)
	if err != nil {
		return err
	}
	ok, err := decoded.VerifyChecksum(want)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("checksum mismatch after roundtrip for game %s", s.GameID)
	}
	return nil
}
