// Package events implements the lifecycle event collector: a bounded
// ring buffer with by-type and by-task queries. Observability only —
// nothing in the core reads its own events back as control flow.
// Grounded on the teacher's internal/learning/store.go query surface
// (filter a bounded history by id/criteria), replicated in memory.
package events

import (
	"sync"

	"github.com/kestrelbot/agentcore/internal/models"
)

// DefaultCapacity is the default ring size.
const DefaultCapacity = 1000

// Collector holds the most recent events up to its capacity, oldest
// first dropped.
type Collector struct {
	mu       sync.Mutex
	capacity int
	ring     []models.LifecycleEvent
}

// NewCollector constructs a Collector with the given capacity (0 means
// DefaultCapacity).
func NewCollector(capacity int) *Collector {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Collector{capacity: capacity}
}

// Emit appends event, evicting the oldest entry if at capacity.
func (c *Collector) Emit(event models.LifecycleEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ring = append(c.ring, event)
	if len(c.ring) > c.capacity {
		c.ring = c.ring[len(c.ring)-c.capacity:]
	}
}

// All returns a snapshot of every retained event, oldest first.
func (c *Collector) All() []models.LifecycleEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.LifecycleEvent, len(c.ring))
	copy(out, c.ring)
	return out
}

// ByType returns retained events of the given type, oldest first.
func (c *Collector) ByType(t models.LifecycleEventType) []models.LifecycleEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.LifecycleEvent
	for _, e := range c.ring {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// ByTask returns retained events for the given task id, oldest first.
func (c *Collector) ByTask(taskID string) []models.LifecycleEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.LifecycleEvent
	for _, e := range c.ring {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out
}

// Len reports how many events are currently retained.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ring)
}
