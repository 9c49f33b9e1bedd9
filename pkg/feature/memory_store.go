package feature

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryFlagStore is an in-memory FlagStore.
type MemoryFlagStore struct {
	mu    sync.RWMutex
	flags map[string]*Flag
}

// NewMemoryFlagStore returns an in-memory flag store seeded with the given
// flags. Seeding runs the same validation as Create.
func NewMemoryFlagStore(initial ...*Flag) (*MemoryFlagStore, error) {
	s := &MemoryFlagStore{flags: make(map[string]*Flag)}
	for _, f := range initial {
		if err := s.Create(context.Background(), f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemoryFlagStore) Get(ctx context.Context, key string) (*Flag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, exists := s.flags[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFlagNotFound, key)
	}
	return cloneFlag(f), nil
}

func (s *MemoryFlagStore) List(ctx context.Context) ([]Flag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Flag, 0, len(s.flags))
	for _, f := range s.flags {
		result = append(result, *cloneFlag(f))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (s *MemoryFlagStore) Create(ctx context.Context, f *Flag) error {
	if f == nil || f.Key == "" {
		return fmt.Errorf("%w: flag key cannot be empty", ErrInvalidFlag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.flags[f.Key]; exists {
		return fmt.Errorf("%w: %s", ErrFlagExists, f.Key)
	}
	if err := s.validateDependencies(f); err != nil {
		return err
	}

	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	s.flags[f.Key] = cloneFlag(f)
	return nil
}

func (s *MemoryFlagStore) Update(ctx context.Context, f *Flag) error {
	if f == nil || f.Key == "" {
		return fmt.Errorf("%w: flag key cannot be empty", ErrInvalidFlag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.flags[f.Key]
	if !exists {
		return fmt.Errorf("%w: %s", ErrFlagNotFound, f.Key)
	}
	if err := s.validateDependencies(f); err != nil {
		return err
	}

	f.CreatedAt = existing.CreatedAt
	f.UpdatedAt = time.Now()
	s.flags[f.Key] = cloneFlag(f)
	return nil
}

// validateDependencies checks that every dependency of f exists and that
// adding f keeps the graph acyclic. Cycles are rejected here, at write
// time, so resolution never needs to guard against infinite recursion.
// Caller must hold the write lock.
func (s *MemoryFlagStore) validateDependencies(f *Flag) error {
	for _, dep := range f.Dependencies {
		if dep == f.Key {
			return fmt.Errorf("%w: %s depends on itself", ErrDependencyCycle, f.Key)
		}
		if _, exists := s.flags[dep]; !exists {
			return fmt.Errorf("%w: %s requires %s", ErrUnknownDependency, f.Key, dep)
		}
	}

	// DFS from f through the stored graph with f's new edges in place.
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)

	var visit func(key string, deps []string) error
	visit = func(key string, deps []string) error {
		state[key] = visiting
		for _, dep := range deps {
			switch state[dep] {
			case visiting:
				return fmt.Errorf("%w: %s -> %s", ErrDependencyCycle, key, dep)
			case done:
				continue
			}
			next, exists := s.flags[dep]
			if !exists {
				continue
			}
			depEdges := next.Dependencies
			if dep == f.Key {
				depEdges = f.Dependencies
			}
			if err := visit(dep, depEdges); err != nil {
				return err
			}
		}
		state[key] = done
		return nil
	}

	return visit(f.Key, f.Dependencies)
}

func cloneFlag(f *Flag) *Flag {
	cp := *f
	cp.Dependencies = slices.Clone(f.Dependencies)
	return &cp
}

// MemoryAssignmentStore is an in-memory AssignmentStore.
type MemoryAssignmentStore struct {
	mu          sync.RWMutex
	assignments map[assignmentKey]Assignment
}

type assignmentKey struct {
	tenantID uuid.UUID
	flagKey  string
}

// NewMemoryAssignmentStore returns an empty in-memory assignment store.
func NewMemoryAssignmentStore() *MemoryAssignmentStore {
	return &MemoryAssignmentStore{assignments: make(map[assignmentKey]Assignment)}
}

func (s *MemoryAssignmentStore) Get(ctx context.Context, tenantID uuid.UUID, flagKey string) (*Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.assignments[assignmentKey{tenantID, flagKey}]
	if !exists {
		return nil, fmt.Errorf("%w: %s/%s", ErrAssignmentNotFound, tenantID, flagKey)
	}
	return &a, nil
}

func (s *MemoryAssignmentStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Assignment, 0)
	for k, a := range s.assignments {
		if k.tenantID == tenantID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FlagKey < result[j].FlagKey })
	return result, nil
}

func (s *MemoryAssignmentStore) Put(ctx context.Context, a *Assignment) error {
	if a == nil || a.FlagKey == "" || a.TenantID == uuid.Nil {
		return fmt.Errorf("%w: assignment needs tenant and flag key", ErrInvalidFlag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := assignmentKey{a.TenantID, a.FlagKey}
	now := time.Now()
	if existing, exists := s.assignments[key]; exists {
		a.CreatedAt = existing.CreatedAt
	} else {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	s.assignments[key] = *a
	return nil
}

func (s *MemoryAssignmentStore) Delete(ctx context.Context, tenantID uuid.UUID, flagKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := assignmentKey{tenantID, flagKey}
	if _, exists := s.assignments[key]; !exists {
		return fmt.Errorf("%w: %s/%s", ErrAssignmentNotFound, tenantID, flagKey)
	}
	delete(s.assignments, key)
	return nil
}
