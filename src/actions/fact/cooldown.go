package fact

import (
	"sync"
	"time"
)

// Cooldown enforces a minimum interval between manual checks per participant.
type Cooldown struct {
	users map[string]time.Time
	mu    sync.Mutex
	limit time.Duration
	now   func() time.Time
}

func NewCooldown(limit time.Duration) *Cooldown {
	return &Cooldown{
		users: make(map[string]time.Time),
		limit: limit,
		now:   time.Now,
	}
}

// Allow records a use and reports true when userID is outside the cooldown window.
// Rejected calls do not extend the window.
func (c *Cooldown) Allow(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	lastUse, exists := c.users[userID]
	if !exists || now.Sub(lastUse) >= c.limit {
		c.users[userID] = now
		return true
	}
	return false
}

// Wait returns how long userID must wait before Allow succeeds again.
func (c *Cooldown) Wait(userID string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	lastUse, exists := c.users[userID]
	if !exists {
		return 0
	}

	elapsed := c.now().Sub(lastUse)
	if elapsed >= c.limit {
		return 0
	}
	return c.limit - elapsed
}

func (c *Cooldown) Limit() time.Duration { return c.limit }
