package propmap

import "fmt"

// Config configures a property map.
type Config[E any] struct {
	// Predicates is the ordered list of predicates queries may use. Order
	// matters: it is the canonical order of query constraints.
	Predicates []Predicate[E]
	// Observer, if set, is notified about inserts, queries and cache misses.
	Observer Observer
}

func (cfg Config[E]) normalized() Config[E] {
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return cfg
}

func (cfg Config[E]) validate() error {
	seen := make(map[string]struct{}, len(cfg.Predicates))
	for i, p := range cfg.Predicates {
		if p.Name == "" {
			return fmt.Errorf("%w: predicate #%d has no name", ErrIllegalArguments, i)
		}
		if p.Test == nil {
			return fmt.Errorf("%w: predicate %q has no test function", ErrIllegalArguments, p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicatePredicate, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}
