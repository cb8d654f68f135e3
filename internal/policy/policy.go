// Package policy implements the category selection rules: the per-user
// cooldown window between selections and the one-time random group
// assignment at first contact.
package policy

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/muralbot/internal/database"
)

// DefaultCooldownWindow is the minimum elapsed time between a user's
// successive category selections.
const DefaultCooldownWindow = 12 * time.Hour

// Cooldown decides whether a user may trigger a new wallpaper distribution.
// The clock is injectable so tests can run without real waiting.
type Cooldown struct {
	window time.Duration
	clock  clockwork.Clock
}

// NewCooldown creates a cooldown policy with the given window. A zero or
// negative window falls back to the default; a nil clock uses the real one.
func NewCooldown(window time.Duration, clock clockwork.Clock) *Cooldown {
	if window <= 0 {
		window = DefaultCooldownWindow
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cooldown{window: window, clock: clock}
}

// MaySelect reports whether the user is past the cooldown window. A user who
// has never clicked a category may always select; otherwise selection is
// permitted exactly when the elapsed time since the last click reaches the
// window.
func (c *Cooldown) MaySelect(user *database.User) bool {
	if user == nil {
		return false
	}
	if !user.LastCategoryClick.Valid {
		return true
	}
	return c.clock.Now().Sub(user.LastCategoryClick.Time) >= c.window
}

// Now returns the policy clock's current time, used as the click timestamp
// when a selection is permitted.
func (c *Cooldown) Now() time.Time {
	return c.clock.Now()
}

// Window returns the configured cooldown window.
func (c *Cooldown) Window() time.Duration {
	return c.window
}

// GroupAssigner picks the narrow or wide group for a new user with a fair
// coin flip. The randomness source is seeded explicitly so tests are
// reproducible.
type GroupAssigner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGroupAssigner creates an assigner seeded with the given value.
func NewGroupAssigner(seed int64) *GroupAssigner {
	return &GroupAssigner{rng: rand.New(rand.NewSource(seed))}
}

// Assign returns the group for a user making first contact.
func (g *GroupAssigner) Assign() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rng.Intn(2) == 0 {
		return database.GroupNarrow
	}
	return database.GroupWide
}
