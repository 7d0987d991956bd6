package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

// Client is the server-side state bound to one browser.
type Client struct {
	ID      string
	Session *Store

	mu       sync.Mutex
	wizards  map[types.WizardKind]string
	from     string
	lastSeen time.Time
}

func newClient(id string) *Client {
	return &Client{
		ID:       id,
		Session:  NewStore(),
		wizards:  map[types.WizardKind]string{},
		lastSeen: time.Now(),
	}
}

func (c *Client) WizardID(kind types.WizardKind) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wizards[kind]
}

func (c *Client) SetWizardID(kind types.WizardKind, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == "" {
		delete(c.wizards, kind)
		return
	}
	c.wizards[kind] = id
}

// RememberFrom stores the location a gate redirect interrupted.
func (c *Client) RememberFrom(location string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.from = location
}

// TakeFrom returns and clears the remembered location.
func (c *Client) TakeFrom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.from
	c.from = ""
	return from
}

func (c *Client) touch(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = now
}

func (c *Client) idleSince(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.lastSeen)
}

type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: map[string]*Client{}}
}

// Get returns the client for id, creating a fresh one with a new id when id
// is empty or unknown.
func (r *Registry) Get(id string) *Client {
	now := time.Now()
	if id != "" {
		r.mu.RLock()
		c, ok := r.clients[id]
		r.mu.RUnlock()
		if ok {
			c.touch(now)
			return c
		}
	}

	c := newClient(uuid.New().String())
	r.mu.Lock()
	r.clients[c.ID] = c
	r.mu.Unlock()
	return c
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Sweep drops clients idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, c := range r.clients {
		if c.idleSince(now) > maxIdle {
			delete(r.clients, id)
			removed++
		}
	}
	return removed
}
