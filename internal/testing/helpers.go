package testing

import (
	"context"
	"testing"
	"time"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// SequenceRand returns the given indexes in order, wrapping around, modulo n.
// It satisfies bootstrap.Rand.
type SequenceRand struct {
	Values []int
	next   int
}

// IntN implements bootstrap.Rand.
func (r *SequenceRand) IntN(n int) int {
	if len(r.Values) == 0 {
		return 0
	}
	v := r.Values[r.next%len(r.Values)]
	r.next++
	return v % n
}
