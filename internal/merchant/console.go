package merchant

import (
	"fmt"
	"sync"
	"time"
)

// Console owns one workspace and serialises edits to it.
type Console struct {
	mu    sync.RWMutex
	ws    Workspace
	now   func() time.Time
	draft func() string
}

// NewConsole takes ownership of a copy of ws. nextID names new product
// drafts.
func NewConsole(ws Workspace, now func() time.Time, nextID func() string) *Console {
	if now == nil {
		now = time.Now
	}
	if nextID == nil {
		nextID = func() string { return fmt.Sprintf("draft-%d", now().UnixMilli()) }
	}
	return &Console{ws: ws.Clone(), now: now, draft: nextID}
}

// Workspace returns a snapshot safe for the caller to keep.
func (c *Console) Workspace() Workspace {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ws.Clone()
}

func (c *Console) UpdateProfile(u ProfileUpdate) Workspace {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.ApplyProfile(u)
	return c.ws.Clone()
}

func (c *Console) UpdateWebhook(u WebhookUpdate) (Workspace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.ApplyWebhook(u); err != nil {
		return Workspace{}, err
	}
	return c.ws.Clone(), nil
}

func (c *Console) UpdateSettlement(u SettlementUpdate) Workspace {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.ApplySettlement(u)
	return c.ws.Clone()
}

func (c *Console) AddProduct(d ProductDraft) (Workspace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.ws.AddProduct(c.draft(), d); err != nil {
		return Workspace{}, err
	}
	return c.ws.Clone(), nil
}

// Publish records a publish at the current time.
func (c *Console) Publish() Workspace {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.MarkPublished(c.now())
	return c.ws.Clone()
}
