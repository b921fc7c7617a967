package fabrica

import (
	"github.com/katalvlaran/fabrica/assign"
	"github.com/katalvlaran/fabrica/genval"
	"github.com/katalvlaran/fabrica/schema"
	"github.com/katalvlaran/fabrica/settings"
)

// Model is an immutable, reusable snapshot of a configuration for T. Models
// compose: FromModel layers a model under further options, and models may be
// built from other models. Creating from a model never mutates it.
type Model[T any] struct {
	customs     []customization
	assignments []assign.Assignment
	feeds       []feedBinding
	axes        []axis
	sources     []ConstraintSource

	st      *settings.Settings
	seed    int64
	seedSet bool

	registry *genval.Registry
	provider schema.Provider
}

// ToModel freezes the given options into a Model.
func ToModel[T any](opts ...Option) Model[T] {
	cfg := buildConfig(opts)

	m := Model[T]{
		customs:     make([]customization, len(cfg.customs)),
		assignments: make([]assign.Assignment, len(cfg.assignments)),
		feeds:       make([]feedBinding, len(cfg.feeds)),
		axes:        make([]axis, len(cfg.axes)),
		sources:     make([]ConstraintSource, len(cfg.sources)),
		st:          cfg.st,
		seed:        cfg.seed,
		seedSet:     cfg.seedSet,
	}
	copy(m.customs, cfg.customs)
	copy(m.assignments, cfg.assignments)
	copy(m.feeds, cfg.feeds)
	copy(m.axes, cfg.axes)
	copy(m.sources, cfg.sources)

	if cfg.registry != defaultRegistry {
		m.registry = cfg.registry
	}
	if cfg.provider != defaultReader {
		m.provider = cfg.provider
	}

	return m
}

// FromModel layers the model's configuration into the current call. Apply it
// before call-site options so equally specific later declarations shadow the
// model's (later wins). Call-site seeds and settings override the model's.
func FromModel[T any](m Model[T]) Option {
	return func(c *config) {
		for _, cu := range m.customs {
			c.addCustom(cu) // renumbered into this call's declaration order
		}
		c.assignments = append(c.assignments, m.assignments...)
		c.feeds = append(c.feeds, m.feeds...)
		c.axes = append(c.axes, m.axes...)
		c.sources = append(c.sources, m.sources...)

		c.st = c.st.Layer(m.st)
		if !c.seedSet && m.seedSet {
			c.seed, c.seedSet = m.seed, true
		}
		if c.registry == defaultRegistry && m.registry != nil {
			c.registry = m.registry
		}
		if c.provider == defaultReader && m.provider != nil {
			c.provider = m.provider
		}
	}
}

// Instantiate creates one T from the model plus optional call-site overrides.
func Instantiate[T any](m Model[T], opts ...Option) (T, error) {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, FromModel(m))
	all = append(all, opts...)

	return Create[T](all...)
}

// InstantiateList creates size instances of T from the model in one run.
func InstantiateList[T any](m Model[T], size int, opts ...Option) ([]T, error) {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, FromModel(m))
	all = append(all, opts...)

	return CreateList[T](size, all...)
}
