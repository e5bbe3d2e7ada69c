package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTicketTTL bounds how long an unused ticket is kept.
const DefaultTicketTTL = 5 * time.Minute

// Tickets issues view-once tokens for the PDF endpoint.
type Tickets struct {
	mu     sync.Mutex
	ttl    time.Duration
	issued map[string]time.Time
	now    func() time.Time
}

// NewTickets creates an empty ticket store.
func NewTickets(ttl time.Duration) *Tickets {
	if ttl <= 0 {
		ttl = DefaultTicketTTL
	}
	return &Tickets{ttl: ttl, issued: make(map[string]time.Time), now: time.Now}
}

// Issue returns a new ticket and drops expired ones.
func (t *Tickets) Issue() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for id, exp := range t.issued {
		if now.After(exp) {
			delete(t.issued, id)
		}
	}
	id := uuid.NewString()
	t.issued[id] = now.Add(t.ttl)
	return id
}

// Redeem consumes a ticket. It reports false for unknown, used, or
// expired tickets.
func (t *Tickets) Redeem(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	exp, ok := t.issued[id]
	if !ok {
		return false
	}
	delete(t.issued, id)
	return !t.now().After(exp)
}

// Len returns the number of outstanding tickets.
func (t *Tickets) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.issued)
}
