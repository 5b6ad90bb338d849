// Package session manages the single signed-in profile. Authentication is
// simulated: passwords are accepted but never checked.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
)

// ErrUserNotFound is returned by SignIn when no profile is stored
var ErrUserNotFound = errors.New("User not found")

// Session is the resolved session handed to the views
type Session struct {
	User models.Profile `json:"user"`
}

// Gateway holds the active profile and mirrors it to a durable Slot
type Gateway struct {
	mu     sync.Mutex
	slot   Slot
	active *models.Profile
	now    func() time.Time
}

func New(slot Slot) *Gateway {
	return &Gateway{
		slot: slot,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// SignUp creates a fresh profile, makes it active, and persists it.
// Any previously stored profile is replaced.
func (g *Gateway) SignUp(ctx context.Context, email, password string) (models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return models.Profile{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	username := email
	if at := strings.Index(email, "@"); at >= 0 {
		username = email[:at]
	}
	profile := models.Profile{
		ID:        uuid.NewString(),
		Username:  &username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to serialize profile: %w", err)
	}
	if err := g.slot.Set(data); err != nil {
		return models.Profile{}, err
	}

	g.active = &profile
	logger.Info("Signed up", "user_id", profile.ID)
	return profile, nil
}

// SignIn reactivates the stored profile
func (g *Gateway) SignIn(ctx context.Context, email, password string) (models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return models.Profile{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	profile, err := g.load()
	if err != nil {
		return models.Profile{}, err
	}
	if profile == nil {
		return models.Profile{}, ErrUserNotFound
	}

	g.active = profile
	logger.Info("Signed in", "user_id", profile.ID)
	return *profile, nil
}

// SignOut clears the active profile and its durable record
func (g *Gateway) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.slot.Delete(); err != nil {
		return err
	}
	g.active = nil
	logger.Info("Signed out")
	return nil
}

// GetSession returns the stored session, or nil when nobody is signed in.
// A stored profile becomes the active one.
func (g *Gateway) GetSession(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	profile, err := g.load()
	if err != nil || profile == nil {
		return nil, err
	}
	g.active = profile
	return &Session{User: *profile}, nil
}

// Current returns the profile activated in this process
func (g *Gateway) Current() (models.Profile, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == nil {
		return models.Profile{}, false
	}
	return *g.active, true
}

func (g *Gateway) load() (*models.Profile, error) {
	data, err := g.slot.Get()
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return nil, nil
		}
		return nil, err
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse stored session: %w", err)
	}
	return &profile, nil
}
