// Package app wires the planning-core components into a single
// in-process runtime the CLI drives: an in-memory task store, a macro
// graph seeded with a small fixed topology, and the resolver/reducer/
// hold/review/activation/threat components operating over it.
//
// Grounded on the teacher's internal/cmd wiring style, where each
// subcommand loads config once via a package-level constructor and
// operates against shared state (the teacher's sqlite-backed learning
// store; here, an in-memory demo store since the core itself persists
// nothing).
package app

import (
	"sort"
	"sync"

	"github.com/kestrelbot/agentcore/internal/models"
)

// Store is the demo in-memory task store. It is the only stateful
// collaborator the resolver, reducer, hold manager, and review pass
// need; a real embedding would satisfy the same access pattern against
// whatever the host bot's own task storage is.
type Store struct {
	mu    sync.Mutex
	tasks map[string]*models.Task
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{tasks: make(map[string]*models.Task)}
}

// GetAllTasks returns every task, sorted by id for deterministic
// iteration order.
func (s *Store) GetAllTasks() []*models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]*models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks
}

// Get returns a task by id.
func (s *Store) Get(id string) (*models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	return t, ok
}

// StoreTask upserts a task and returns it.
func (s *Store) StoreTask(t *models.Task) *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	return t
}

// Delete removes a task by id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
}
