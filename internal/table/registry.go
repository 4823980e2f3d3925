package table

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/cardroom/holdemd/internal/engine"
	"github.com/cardroom/holdemd/internal/tableid"
)

// ErrTableNotFound is returned when a table id does not resolve
var ErrTableNotFound = errors.New("table not found")

// Registry holds the live tables keyed by opaque identifier. The map is
// guarded by a short-critical-section mutex; entries are only ever
// inserted or removed, never mutated in place.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Actor
	logger *log.Logger
	opts   []ActorOption
}

// NewRegistry creates an empty registry. The given actor options apply to
// every table it creates (clock, action timeout).
func NewRegistry(logger *log.Logger, opts ...ActorOption) *Registry {
	return &Registry{
		tables: make(map[string]*Actor),
		logger: logger.WithPrefix("registry"),
		opts:   opts,
	}
}

// ValidateConfig checks table parameters before a table is created
func ValidateConfig(cfg engine.Config) error {
	if cfg.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", cfg.SmallBlind)
	}
	if cfg.BigBlind < cfg.SmallBlind {
		return fmt.Errorf("big blind %d must not be below small blind %d", cfg.BigBlind, cfg.SmallBlind)
	}
	if cfg.Ante < 0 {
		return fmt.Errorf("ante must not be negative, got %d", cfg.Ante)
	}
	if cfg.MaxSeats < 2 || cfg.MaxSeats > 10 {
		return fmt.Errorf("max seats must be between 2 and 10, got %d", cfg.MaxSeats)
	}
	return nil
}

// Create validates the config, builds a table actor and registers it
func (r *Registry) Create(cfg engine.Config, opts ...ActorOption) (*Actor, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	id := tableid.New()
	actor := NewActor(id, cfg, r.logger, append(append([]ActorOption{}, r.opts...), opts...)...)

	r.mu.Lock()
	r.tables[id] = actor
	r.mu.Unlock()

	r.logger.Info("table created", "table", id,
		"blinds", fmt.Sprintf("%d/%d", cfg.SmallBlind, cfg.BigBlind),
		"ante", cfg.Ante, "maxSeats", cfg.MaxSeats)
	return actor, nil
}

// Get resolves a table id
func (r *Registry) Get(id string) (*Actor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actor, ok := r.tables[id]
	return actor, ok
}

// Destroy stops a table, closing its subscriptions and cancelling its
// pending deadlines.
func (r *Registry) Destroy(id string) error {
	r.mu.Lock()
	actor, ok := r.tables[id]
	if ok {
		delete(r.tables, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrTableNotFound
	}
	actor.Stop()
	r.logger.Info("table destroyed", "table", id)
	return nil
}

// IDs returns the registered table ids in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.tables))
	for id := range r.tables {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Close destroys every table
func (r *Registry) Close() {
	r.mu.Lock()
	tables := r.tables
	r.tables = make(map[string]*Actor)
	r.mu.Unlock()

	for _, actor := range tables {
		actor.Stop()
	}
}
