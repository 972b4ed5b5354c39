package state

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Store persists the identity → last-observed-price snapshot between runs.
type Store struct {
	Path string
}

// NewStore creates a Store for the given snapshot path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the prior snapshot. A missing or malformed file yields an
// empty snapshot: a run with no baseline must still complete with zero
// alerts rather than fail.
func (s *Store) Load() map[string]float64 {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] read state file %s: %v, starting from empty baseline", s.Path, err)
		}
		return map[string]float64{}
	}
	var snapshot map[string]float64
	if err := json.Unmarshal(data, &snapshot); err != nil {
		log.Printf("[WARN] malformed state file %s: %v, starting from empty baseline", s.Path, err)
		return map[string]float64{}
	}
	if snapshot == nil {
		return map[string]float64{}
	}
	return snapshot
}

// Save replaces the persisted snapshot wholesale. The write is atomic
// (temp file + rename) so a crash never leaves a truncated baseline.
// A failed save must be surfaced: the next run's diffs depend on it.
func (s *Store) Save(snapshot map[string]float64) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".last_prices-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
