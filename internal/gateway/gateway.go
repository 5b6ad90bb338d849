// Package gateway is the persistence layer the views talk to. It assigns
// identifiers and timestamps, merges partial updates, and serializes every
// mutation over a storage.Provider.
package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

// Gateway groups the per-entity APIs over one store
type Gateway struct {
	mu    sync.Mutex
	store storage.Provider
	now   func() time.Time
	newID func() string

	Habits       *HabitsAPI
	HabitLogs    *HabitLogsAPI
	Achievements *AchievementsAPI
}

// Option customizes a Gateway
type Option func(*Gateway)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithIDGenerator overrides the identifier source
func WithIDGenerator(newID func() string) Option {
	return func(g *Gateway) { g.newID = newID }
}

// New returns a gateway over a loaded store
func New(store storage.Provider, opts ...Option) *Gateway {
	g := &Gateway{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.Habits = &HabitsAPI{g: g}
	g.HabitLogs = &HabitLogsAPI{g: g}
	g.Achievements = &AchievementsAPI{g: g}
	return g
}

// Store returns the underlying provider
func (g *Gateway) Store() storage.Provider {
	return g.store
}

func (g *Gateway) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	return nil
}

// Categories returns the fixed category list
func (g *Gateway) Categories() []models.Category {
	return models.DefaultCategories()
}

// CategoryByID looks up a category by id
func (g *Gateway) CategoryByID(id string) (models.Category, bool) {
	for _, c := range models.DefaultCategories() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}
