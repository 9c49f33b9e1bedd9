package plan

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Catalog provides read access to plan definitions plus operator updates.
// Plans are never deleted; retiring a plan means clearing its Active flag.
type Catalog interface {
	// GetByKey returns the plan with the given key.
	// Returns ErrPlanNotFound if no such plan exists.
	GetByKey(ctx context.Context, key string) (*Plan, error)

	// ListActive returns all active plans sorted by key.
	ListActive(ctx context.Context) ([]Plan, error)

	// Save creates or replaces a plan definition.
	Save(ctx context.Context, p *Plan) error
}

// memoryCatalog is a mutex-guarded in-memory Catalog. It serves tests and
// deployments where plans are defined statically at startup.
type memoryCatalog struct {
	mu    sync.RWMutex
	plans map[string]Plan
}

// NewMemoryCatalog returns an in-memory catalog seeded with the given plans.
func NewMemoryCatalog(plans ...Plan) (Catalog, error) {
	c := &memoryCatalog{plans: make(map[string]Plan, len(plans))}
	for _, p := range plans {
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, exists := c.plans[p.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlan, p.Key)
		}
		c.plans[p.Key] = p.clone()
	}
	return c, nil
}

func (c *memoryCatalog) GetByKey(ctx context.Context, key string) (*Plan, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, exists := c.plans[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, key)
	}
	cp := p.clone()
	return &cp, nil
}

func (c *memoryCatalog) ListActive(ctx context.Context) ([]Plan, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Plan, 0, len(c.plans))
	for _, p := range c.plans {
		if p.Active {
			result = append(result, p.clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (c *memoryCatalog) Save(ctx context.Context, p *Plan) error {
	if p == nil {
		return ErrInvalidPlan
	}
	if err := validate(*p); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans[p.Key] = p.clone()
	return nil
}

func validate(p Plan) error {
	if p.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidPlan)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: plan %s has no name", ErrInvalidPlan, p.Key)
	}
	if p.PriceCents < 0 {
		return fmt.Errorf("%w: plan %s has negative price", ErrInvalidPlan, p.Key)
	}
	return nil
}
