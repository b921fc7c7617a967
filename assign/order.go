package assign

import (
	"errors"

	"github.com/katalvlaran/fabrica/selectkit"
)

// ErrCyclicAssignment indicates the declared assignments form a dependency
// cycle (e.g. A derives from B while B derives from A) and no evaluation
// order exists.
var ErrCyclicAssignment = errors.New("assign: cyclic assignment dependency")

// Visitation states for the dependency DFS.
const (
	white = iota // unvisited
	gray         // on the current DFS path
	black        // fully explored
)

// Order computes an evaluation order (indices into assignments) such that
// every assignment runs after any assignment that may write its source.
// Dependency edges come from static selector overlap (selectkit.Overlaps):
// assignment j depends on assignment i when i's target can provably be j's
// source. Within the freedom the graph leaves, declaration order is kept.
//
// Returns ErrCyclicAssignment when the dependencies form a cycle.
func Order(assignments []Assignment) ([]int, error) {
	n := len(assignments)
	if n == 0 {
		return nil, nil
	}

	// 1. Build adjacency: edge i → j when j's source reads i's target.
	deps := make([][]int, n) // deps[j] = assignments that must run before j
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if selectkit.Overlaps(assignments[i].Target(), assignments[j].Source()) {
				deps[j] = append(deps[j], i)
			}
		}
	}

	// 2. Three-color DFS, post-order = valid evaluation order.
	state := make([]int, n)
	order := make([]int, 0, n)

	var visit func(int) error
	visit = func(j int) error {
		switch state[j] {
		case gray:
			return ErrCyclicAssignment
		case black:
			return nil
		}
		state[j] = gray
		for _, i := range deps[j] {
			if err := visit(i); err != nil {
				return err
			}
		}
		state[j] = black
		order = append(order, j)

		return nil
	}

	// 3. Drive from every assignment in declaration order so independent
	// assignments keep their declared sequence.
	for j := 0; j < n; j++ {
		if state[j] == white {
			if err := visit(j); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}
