package propmap

// Observer receives notifications about the work a property map does.
// Observers are called synchronously, on the goroutine using the map.
type Observer interface {
	// Inserted is called after an element has been inserted and propagated
	// into extended partitions (the root included).
	Inserted(id int, extended int)
	// Queried is called after a successful query, with the number of
	// partitions found in the cache (hits) and the number created (misses).
	Queried(hits, misses int)
	// Materialized is called whenever a partition is created from scanning
	// its parent's elements.
	Materialized(predicate string, scanned, matched int)
	// Failed is called when a predicate test fails.
	Failed(predicate string, err error)
}

type nopObserver struct{}

func (nopObserver) Inserted(int, int)             {}
func (nopObserver) Queried(int, int)              {}
func (nopObserver) Materialized(string, int, int) {}
func (nopObserver) Failed(string, error)          {}
