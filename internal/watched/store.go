// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watched owns the user's rated watched list. The list is kept in
// memory in insertion order and mirrored whole to a persistence port after
// every mutation.
package watched

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sync"

	"github.com/pdiddy/popcorn/internal/storage"
	"github.com/pdiddy/popcorn/pkg/types"
)

// StorageKey is the fixed key the list is persisted under.
const StorageKey = "watched"

// MaxUserRating is the highest rating a user can give.
const MaxUserRating = 10

// Port loads and saves the serialized list. storage.Backend satisfies it.
// Load returns storage.ErrNotFound for a key that was never saved.
type Port interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Summary holds the aggregates shown above the list.
type Summary struct {
	Count             int     `json:"count" yaml:"count"`
	AvgExternalRating float64 `json:"avgImdbRating" yaml:"avg_external_rating"`
	AvgUserRating     float64 `json:"avgUserRating" yaml:"avg_user_rating"`
	AvgRuntime        float64 `json:"avgRuntime" yaml:"avg_runtime"`
}

// Store is the watched list.
type Store struct {
	port   Port
	logger *log.Logger

	mu      sync.RWMutex
	records []types.WatchedRecord
}

// Open loads the list from port. A missing key or malformed data yields an
// empty list; the problem is logged and never returned.
func Open(ctx context.Context, port Port, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{port: port, logger: logger}
	s.records = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []types.WatchedRecord {
	data, err := s.port.Load(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Printf("loading watched list: %v; starting empty", err)
		return nil
	}

	var records []types.WatchedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Printf("parsing watched list: %v; starting empty", err)
		return nil
	}
	return dedupe(records)
}

// dedupe keeps the last record for each id, in the order the survivors
// appear, so a hand-edited file cannot break the one-per-id invariant.
func dedupe(records []types.WatchedRecord) []types.WatchedRecord {
	last := make(map[string]int, len(records))
	for i, r := range records {
		last[r.ID] = i
	}
	out := make([]types.WatchedRecord, 0, len(last))
	for i, r := range records {
		if r.ID != "" && last[r.ID] == i {
			out = append(out, r)
		}
	}
	return out
}

// ErrInvalidRecord is returned by Add for a record without an id or with a
// rating outside 1..MaxUserRating.
var ErrInvalidRecord = errors.New("invalid watched record")

// Add appends rec, first removing any record with the same id, and persists
// the list.
func (s *Store) Add(ctx context.Context, rec types.WatchedRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: no id", ErrInvalidRecord)
	}
	if rec.UserRating < 1 || rec.UserRating > MaxUserRating {
		return fmt.Errorf("%w: user rating %d out of range 1-%d", ErrInvalidRecord, rec.UserRating, MaxUserRating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]types.WatchedRecord, 0, len(s.records)+1)
	for _, r := range s.records {
		if r.ID != rec.ID {
			next = append(next, r)
		}
	}
	next = append(next, rec)
	return s.commitLocked(ctx, next)
}

// Remove deletes the record with id if present and persists the list.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]types.WatchedRecord, 0, len(s.records))
	for _, r := range s.records {
		if r.ID != id {
			next = append(next, r)
		}
	}
	return s.commitLocked(ctx, next)
}

// commitLocked persists next and only then makes it the current list.
func (s *Store) commitLocked(ctx context.Context, next []types.WatchedRecord) error {
	data, err := Marshal(next)
	if err != nil {
		return err
	}
	if err := s.port.Save(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("saving watched list: %w", err)
	}
	s.records = next
	return nil
}

// Contains reports whether id is in the list.
func (s *Store) Contains(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Get returns the record for id.
func (s *Store) Get(id string) (types.WatchedRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return types.WatchedRecord{}, false
}

// List returns a copy of the records in insertion order.
func (s *Store) List() []types.WatchedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.WatchedRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Summary computes the aggregates over the current list.
func (s *Store) Summary() Summary {
	return Summarize(s.List())
}

// Summarize computes count and the three means over records. Each mean is
// accumulated as the sum of v/n and rounded to two decimals; the mean of an
// empty list is 0.
func Summarize(records []types.WatchedRecord) Summary {
	ext := make([]float64, len(records))
	user := make([]float64, len(records))
	runtime := make([]float64, len(records))
	for i, r := range records {
		ext[i] = r.ExternalRating
		user[i] = float64(r.UserRating)
		runtime[i] = float64(r.RuntimeMinutes)
	}
	return Summary{
		Count:             len(records),
		AvgExternalRating: average(ext),
		AvgUserRating:     average(user),
		AvgRuntime:        average(runtime),
	}
}

func average(values []float64) float64 {
	var acc float64
	n := float64(len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		acc += v / n
	}
	return math.Round(acc*100) / 100
}

// Marshal serializes records in the persisted format. A nil list is
// written as an empty array.
func Marshal(records []types.WatchedRecord) ([]byte, error) {
	if records == nil {
		records = []types.WatchedRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding watched list: %w", err)
	}
	return data, nil
}

// Unmarshal parses the persisted format.
func Unmarshal(data []byte) ([]types.WatchedRecord, error) {
	var records []types.WatchedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding watched list: %w", err)
	}
	return records, nil
}
