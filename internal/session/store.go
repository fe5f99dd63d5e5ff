package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
)

// ErrNotFound is returned for an unknown workspace id.
var ErrNotFound = errors.New("workspace not found")

// DefaultMaxWorkspaces bounds how many workspaces a Store keeps open.
const DefaultMaxWorkspaces = 16

// Store holds open workspaces. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
	limit      int
}

// NewStore returns an empty store holding at most limit workspaces. A
// non-positive limit means DefaultMaxWorkspaces.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultMaxWorkspaces
	}
	return &Store{
		workspaces: make(map[string]*Workspace),
		limit:      limit,
	}
}

// Open creates a workspace from copies of source and mask.
func (s *Store) Open(source, mask *carving.Grid) (*Workspace, error) {
	if err := carving.CheckCrop(source, mask, 0); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.workspaces) >= s.limit {
		return nil, fmt.Errorf("too many open workspaces (limit %d); close one first", s.limit)
	}
	w := newWorkspace(uuid.NewString(), source, mask)
	s.workspaces[w.ID] = w
	return w, nil
}

// Get returns the workspace with the given id.
func (s *Store) Get(id string) (*Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return w, nil
}

// Close discards the workspace with the given id.
func (s *Store) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.workspaces, id)
	return nil
}

// List describes every open workspace, oldest first.
func (s *Store) List() []Info {
	s.mu.RLock()
	infos := make([]Info, 0, len(s.workspaces))
	for _, w := range s.workspaces {
		infos = append(infos, w.Info())
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Created.Equal(infos[j].Created) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].Created.Before(infos[j].Created)
	})
	return infos
}

// Len returns the number of open workspaces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}
