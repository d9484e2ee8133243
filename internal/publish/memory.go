package publish

import (
	"context"
	"slices"
	"sync"
)

// MemorySink keeps the last written grid of every view. Views listed in Fail
// are rejected with the given error.
type MemorySink struct {
	Fail map[string]error

	mutex  sync.Mutex
	views  map[string][][]string
	writes []string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{views: map[string][][]string{}}
}

func (s *MemorySink) Name() string {
	return "memory"
}

func (s *MemorySink) Write(ctx context.Context, view View) error {
	if err, ok := s.Fail[view.Name]; ok {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	grid := view.Grid()
	copied := make([][]string, len(grid))
	for i, row := range grid {
		copied[i] = slices.Clone(row)
	}
	s.views[view.Name] = copied
	s.writes = append(s.writes, view.Name)
	return nil
}

// View returns the last grid written under name.
func (s *MemorySink) View(name string) ([][]string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	grid, ok := s.views[name]
	return grid, ok
}

// Writes returns the names of the views written, in order.
func (s *MemorySink) Writes() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return slices.Clone(s.writes)
}
