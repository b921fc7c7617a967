package fabrica

import (
	"fmt"
	"reflect"

	"github.com/katalvlaran/fabrica/assign"
	"github.com/katalvlaran/fabrica/randsrc"
)

// run is the state of one generation call: the resolved configuration, the
// seeded randomness source, the populator and the precomputed assignment
// evaluation order. A run is single-goroutine by construction.
type run struct {
	cfg   *config
	src   *randsrc.Source
	pop   *populator
	order []int
}

// newRun validates the configuration and assembles the run.
//
// Steps:
//  1. collect discovered customizations from constraint sources (flagged so
//     they rank below every explicit one);
//  2. compute the assignment evaluation order — a cyclic dependency fails
//     here, before any value is generated;
//  3. seed the randomness source (explicit seed, or a fresh one that will be
//     reported on the result).
func newRun(cfg *config, rootT reflect.Type) (*run, error) {
	for _, cs := range cfg.sources {
		opts, err := cs.Customizations(rootT)
		if err != nil {
			return nil, fmt.Errorf("fabrica: constraint source: %w", err)
		}
		mark := len(cfg.customs)
		for _, opt := range opts {
			if opt != nil {
				opt(cfg)
			}
		}
		for i := mark; i < len(cfg.customs); i++ {
			cfg.customs[i].discovered = true
		}
	}

	order, err := assign.Order(cfg.assignments)
	if err != nil {
		return nil, err
	}

	var src *randsrc.Source
	if cfg.seedSet {
		src = randsrc.New(cfg.seed)
	} else {
		src = randsrc.NewRandom()
	}

	return &run{cfg: cfg, src: src, pop: newPopulator(cfg, src.Rand()), order: order}, nil
}

// instance builds one fully resolved root value: populate, drain completion
// callbacks, bind feeds, then apply assignments (in that order, so
// assignments may derive from fed values).
func (r *run) instance(rootT reflect.Type) (reflect.Value, error) {
	v := reflect.New(rootT).Elem()
	if err := r.pop.populateRoot(v, rootT); err != nil {
		return v, err
	}
	if err := r.bindFeeds(v, rootT); err != nil {
		return v, err
	}
	if err := r.applyAssignments(v, rootT); err != nil {
		return v, err
	}

	return v, nil
}

// fail attaches the run's seed to a fatal error so the failure replays.
func (r *run) fail(err error) error {
	return fmt.Errorf("%w (seed %d)", err, r.src.Seed())
}

// rootType resolves the reflect.Type of the type parameter.
func rootType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Create builds one fully populated instance of T.
//
// Contract:
//   - every reachable exported position receives a generated value, subject
//     to the declared customizations and depth settings;
//   - the same options with the same seed produce the same value, bit for
//     bit;
//   - fatal errors carry the active seed.
func Create[T any](opts ...Option) (T, error) {
	res, err := AsResult[T](opts...)

	return res.value, err
}

// AsResult is Create returning the full Result: value, seed and collected
// warnings.
func AsResult[T any](opts ...Option) (Result[T], error) {
	rootT := rootType[T]()
	r, err := newRun(buildConfig(opts), rootT)
	if err != nil {
		return Result[T]{}, err
	}

	v, err := r.instance(rootT)
	if err != nil {
		return Result[T]{seed: r.src.Seed()}, r.fail(err)
	}

	return Result[T]{
		value:    v.Interface().(T),
		seed:     r.src.Seed(),
		warnings: r.pop.warnings,
	}, nil
}

// CreateList builds size instances of T within one run: they share the run
// seed, the uniqueness state and the feed cursors, so WithUnique spans the
// whole batch and feeds hand out consecutive rows. Each instance populates on
// its own stream derived from the run seed, so an instance's values depend on
// its index, not on how much randomness earlier instances consumed.
func CreateList[T any](size int, opts ...Option) ([]T, error) {
	if size < 0 {
		panic("fabrica: CreateList requires size >= 0")
	}
	rootT := rootType[T]()
	r, err := newRun(buildConfig(opts), rootT)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, size)
	for i := 0; i < size; i++ {
		r.pop.rnd = r.src.Derive(uint64(i)).Rand()
		v, err := r.instance(rootT)
		if err != nil {
			return nil, r.fail(err)
		}
		out = append(out, v.Interface().(T))
	}

	return out, nil
}

// CartesianProduct builds one instance per combination of the declared With
// axes, ordered with the last axis varying fastest:
//
//	With(a, 1, 2), With(b, "x", "y") ⇒ (1,x) (1,y) (2,x) (2,y)
//
// An axis with no values fails with ErrEmptyAxis. With no axes at all the
// product has exactly one (unconstrained) instance.
func CartesianProduct[T any](opts ...Option) ([]T, error) {
	cfg := buildConfig(opts)
	rootT := rootType[T]()

	total := 1
	for _, ax := range cfg.axes {
		if len(ax.values) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyAxis, ax.sel)
		}
		total *= len(ax.values)
	}

	r, err := newRun(cfg, rootT)
	if err != nil {
		return nil, err
	}

	// Odometer over the axes; axis values are pinned as Set customizations
	// appended after all declared ones, so they win equal-rank ties.
	idx := make([]int, len(cfg.axes))
	base := len(cfg.customs)
	out := make([]T, 0, total)
	for k := 0; k < total; k++ {
		cfg.customs = cfg.customs[:base]
		for i, ax := range cfg.axes {
			cfg.addCustom(customization{kind: actSet, sel: ax.sel, value: ax.values[idx[i]]})
		}

		v, err := r.instance(rootT)
		if err != nil {
			return nil, r.fail(err)
		}
		out = append(out, v.Interface().(T))

		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(cfg.axes[i].values) {
				break
			}
			idx[i] = 0
		}
	}

	return out, nil
}
