// Package scan buffers statements from watched participants and verifies them in batches.
package scan

import (
	"strings"
	"sync"

	"github.com/stake-plus/capapp/src/metrics"
)

// Key identifies one participant in one channel.
type Key struct {
	ChannelID string
	UserID    string
}

// Batch is the set of statements drained for one key.
type Batch struct {
	Key
	Statements []string
}

// Buffer queues statements per (channel, participant) until the next scan tick.
// It lives for the process only; a restart loses whatever was pending.
type Buffer struct {
	mu      sync.Mutex
	pending map[Key][]string
	order   []Key
	size    int
}

func NewBuffer() *Buffer {
	return &Buffer{pending: make(map[Key][]string)}
}

// Add queues a statement. Blank statements are ignored and reported as not added.
func (b *Buffer) Add(channelID, userID, statement string) bool {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return false
	}
	key := Key{ChannelID: channelID, UserID: userID}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.pending[key]; !ok {
		b.order = append(b.order, key)
	}
	b.pending[key] = append(b.pending[key], statement)
	b.size++
	metrics.Buffered.Set(float64(b.size))
	return true
}

// Drain removes and returns every non-empty key in first-seen order. Statements added
// after Drain returns belong to the next batch.
func (b *Buffer) Drain() []Batch {
	b.mu.Lock()
	defer b.mu.Unlock()

	batches := make([]Batch, 0, len(b.order))
	for _, key := range b.order {
		if stmts := b.pending[key]; len(stmts) > 0 {
			batches = append(batches, Batch{Key: key, Statements: stmts})
		}
	}
	b.pending = make(map[Key][]string)
	b.order = nil
	b.size = 0
	metrics.Buffered.Set(0)
	return batches
}

// Pending returns a copy of the statements queued for a key.
func (b *Buffer) Pending(channelID, userID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	stmts := b.pending[Key{ChannelID: channelID, UserID: userID}]
	return append([]string(nil), stmts...)
}

// Len returns the number of queued statements.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}
