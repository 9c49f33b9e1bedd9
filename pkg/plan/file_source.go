package plan

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// planFile is the on-disk shape for declarative plan definitions.
type planFile struct {
	Plans []Plan `yaml:"plans"`
}

// LoadFile reads plan definitions from a YAML file.
//
// Example file:
//
//	plans:
//	  - key: starter
//	    name: Starter
//	    active: true
//	    price_cents: 2900
//	    features: [online_booking]
//	    limits:
//	      clients: 50
//	      coaches: 2
//	      sessions_per_month: 200
//	      sms_per_month: 0
//	      emails_per_month: 500
//	      storage_mb: 512
//	  - key: pro
//	    name: Pro
//	    active: true
//	    limits:
//	      clients: unlimited
//	      ...
func LoadFile(path string) ([]Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoad, err)
	}

	var f planFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Join(ErrFailedToLoad, err)
	}

	seen := make(map[string]struct{}, len(f.Plans))
	for _, p := range f.Plans {
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, dup := seen[p.Key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlan, p.Key)
		}
		seen[p.Key] = struct{}{}
	}
	return f.Plans, nil
}

// NewFileCatalog loads plan definitions from a YAML file into an in-memory
// catalog.
func NewFileCatalog(path string) (Catalog, error) {
	plans, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryCatalog(plans...)
}
