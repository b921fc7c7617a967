package fabrica

import (
	"reflect"

	"github.com/katalvlaran/fabrica/assign"
	"github.com/katalvlaran/fabrica/feed"
	"github.com/katalvlaran/fabrica/genval"
	"github.com/katalvlaran/fabrica/schema"
	"github.com/katalvlaran/fabrica/selectkit"
	"github.com/katalvlaran/fabrica/settings"
)

// actionKind discriminates the closed set of customization actions. The
// populator consumes the set in one exhaustive switch; adding an arm means
// extending that switch.
type actionKind uint8

const (
	actSet actionKind = iota
	actGenerate
	actIgnore
	actSubtype
	actBlank
	actNullable
	actUnique
	actFilter
	actOnComplete
)

// customization couples one selector with one action and its payload.
// Customizations are immutable after declaration; index records declaration
// order for precedence tie-breaking.
type customization struct {
	kind actionKind
	sel  selectkit.Selector

	value      any                 // actSet
	gen        genval.Generator    // actGenerate
	subtype    reflect.Type        // actSubtype
	filter     func(any) bool      // actFilter
	onComplete func(reflect.Value) // actOnComplete

	// discovered marks customizations supplied by a ConstraintSource; they
	// rank below every explicitly declared one.
	discovered bool

	index int
}

// feedBinding pairs a feed with the selector of the struct positions it
// binds onto.
type feedBinding struct {
	sel selectkit.Selector
	f   *feed.Feed
}

// axis is one dimension of a cartesian product: a selector and its ordered
// value set.
type axis struct {
	sel    selectkit.Selector
	values []any
}

// ConstraintSource supplies customizations discovered from external metadata
// (validation tags, schema annotations). Discovered customizations rank
// below every explicitly declared one regardless of selector specificity.
type ConstraintSource interface {
	Customizations(root reflect.Type) ([]Option, error)
}

// config is the accumulated, per-call configuration. It is built fresh for
// every Create call from the option list, so runs never share mutable state.
type config struct {
	customs     []customization
	assignments []assign.Assignment
	feeds       []feedBinding
	axes        []axis
	sources     []ConstraintSource

	// st holds explicit setting overrides only; effective settings are
	// settings.Defaults().Layer(st).
	st *settings.Settings

	seed    int64
	seedSet bool

	registry *genval.Registry
	provider schema.Provider
}

// Shared, read-only defaults. The reader's cache is the only cross-run
// shared state and is safe for concurrent use.
var (
	defaultReader   = schema.NewReader()
	defaultRegistry = genval.DefaultRegistry()
)

// Option mutates the per-call configuration. Options are applied in
// declaration order; for equally specific selectors the later one wins.
type Option func(*config)

// buildConfig applies opts to a fresh config and numbers customizations in
// declaration order.
func buildConfig(opts []Option) *config {
	cfg := &config{
		registry: defaultRegistry,
		provider: defaultReader,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return cfg
}

// addCustom appends a customization, assigning its declaration index.
func (c *config) addCustom(cu customization) {
	cu.index = len(c.customs)
	c.customs = append(c.customs, cu)
}

// settingsView resolves the effective settings for this configuration.
func (c *config) settingsView() *settings.Settings {
	return settings.Defaults().Layer(c.st)
}

// Set pins every position matched by the selector to a fixed value. The
// value must be assignable or numerically/string convertible to the target
// type; pointer targets accept the element value.
func Set(sel selectkit.Selector, value any) Option {
	return func(c *config) {
		c.addCustom(customization{kind: actSet, sel: sel, value: value})
	}
}

// Generate replaces the default generator at matched positions. A
// genval.Collection directive adjusts element counts instead of producing a
// value.
func Generate(sel selectkit.Selector, g genval.Generator) Option {
	if g == nil {
		panic("fabrica: Generate requires a generator")
	}

	return func(c *config) {
		c.addCustom(customization{kind: actGenerate, sel: sel, gen: g})
	}
}

// Ignore leaves matched positions at their zero value, recursing no further.
func Ignore(sel selectkit.Selector) Option {
	return func(c *config) {
		c.addCustom(customization{kind: actIgnore, sel: sel})
	}
}

// SubtypeOf substitutes the concrete type S at matched abstract (interface)
// positions; S must implement the interface directly or via pointer
// receiver.
func SubtypeOf[S any](sel selectkit.Selector) Option {
	return Subtype(sel, reflect.TypeOf((*S)(nil)).Elem())
}

// Subtype is the non-generic form of SubtypeOf for a runtime reflect.Type.
func Subtype(sel selectkit.Selector, concrete reflect.Type) Option {
	if concrete == nil {
		panic("fabrica: Subtype requires a concrete type")
	}

	return func(c *config) {
		c.addCustom(customization{kind: actSubtype, sel: sel, subtype: concrete})
	}
}

// SetBlank allocates matched composites without populating them: scalar
// fields stay zero, collections and maps come back empty but non-nil,
// pointers non-nil.
func SetBlank(sel selectkit.Selector) Option {
	return func(c *config) {
		c.addCustom(customization{kind: actBlank, sel: sel})
	}
}

// WithNullable lets matched positions come back as their zero value with
// the configured probability (settings.NullableProbability, default 1/6).
func WithNullable(sel selectkit.Selector) Option {
	return func(c *config) {
		c.addCustom(customization{kind: actNullable, sel: sel})
	}
}

// WithUnique forces matched positions to carry pairwise distinct values
// within one run (CreateList shares the uniqueness state across the whole
// batch). Exceeding the retry budget fails with ErrGenerationExhausted.
func WithUnique(sel selectkit.Selector) Option {
	return func(c *config) {
		c.addCustom(customization{kind: actUnique, sel: sel})
	}
}

// Filter regenerates matched positions until the predicate passes, bounded
// by the retry budget (settings.RetryBudget). A value of a different type
// than V never passes.
func Filter[V any](sel selectkit.Selector, pred func(V) bool) Option {
	if pred == nil {
		panic("fabrica: Filter requires a predicate")
	}
	wrapped := func(v any) bool {
		tv, ok := v.(V)
		if !ok {
			return false
		}

		return pred(tv)
	}

	return func(c *config) {
		c.addCustom(customization{kind: actFilter, sel: sel, filter: wrapped})
	}
}

// OnComplete registers a callback invoked with each matched value after its
// subtree is fully populated (children before parents). The callback
// receives a pointer into the generated object and may mutate it; values
// reached through map entries are copies, so mutations there are lost.
func OnComplete[V any](sel selectkit.Selector, fn func(*V)) Option {
	if fn == nil {
		panic("fabrica: OnComplete requires a callback")
	}
	wrapped := func(v reflect.Value) {
		if v.CanAddr() {
			if p, ok := v.Addr().Interface().(*V); ok {
				fn(p)
			}

			return
		}
		if cp, ok := v.Interface().(V); ok {
			fn(&cp)
		}
	}

	return func(c *config) {
		c.addCustom(customization{kind: actOnComplete, sel: sel, onComplete: wrapped})
	}
}

// Assign declares derivations between generated positions; they run after
// population in dependency order (see the assign package). A cyclic
// dependency fails the run with assign.ErrCyclicAssignment before any value
// is generated.
func Assign(assignments ...assign.Assignment) Option {
	return func(c *config) {
		c.assignments = append(c.assignments, assignments...)
	}
}

// ApplyFeed binds the feed's rows onto every struct position matched by the
// selector, one record per instance. Binding runs after population and
// before assignments, so assignments may derive from fed values.
func ApplyFeed(sel selectkit.Selector, f *feed.Feed) Option {
	if f == nil {
		panic("fabrica: ApplyFeed requires a feed")
	}

	return func(c *config) {
		c.feeds = append(c.feeds, feedBinding{sel: sel, f: f})
	}
}

// With declares one cartesian product axis: the selector takes each of the
// given values in order. Only CartesianProduct consumes axes; plain Create
// ignores them.
func With(sel selectkit.Selector, values ...any) Option {
	vs := make([]any, len(values))
	copy(vs, values)

	return func(c *config) {
		c.axes = append(c.axes, axis{sel: sel, values: vs})
	}
}

// WithSeed fixes the run's seed for bit-for-bit reproducibility. Without it,
// a fresh seed is drawn and reported via Result.Seed.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
		c.seedSet = true
	}
}

// WithSettings layers a settings profile over the defaults (and over any
// previously applied profile).
func WithSettings(s *settings.Settings) Option {
	return func(c *config) {
		c.st = c.st.Layer(s)
	}
}

// WithSetting overrides one setting for this run.
func WithSetting(k settings.Key, v any) Option {
	return func(c *config) {
		c.st = c.st.With(k, v)
	}
}

// WithMaxDepth bounds population depth for this run (root = 0).
func WithMaxDepth(d int) Option {
	if d < 0 {
		panic("fabrica: WithMaxDepth requires a non-negative depth")
	}

	return WithSetting(settings.MaxDepth, d)
}

// WithSize bounds generated collection sizes to [lo, hi] for this run.
func WithSize(lo, hi int) Option {
	if lo < 0 || hi < lo {
		panic("fabrica: WithSize requires 0 <= lo <= hi")
	}

	return func(c *config) {
		c.st = c.st.With(settings.CollectionMinSize, lo).With(settings.CollectionMaxSize, hi)
	}
}

// WithRegistry replaces the default generator registry for this run.
func WithRegistry(reg *genval.Registry) Option {
	if reg == nil {
		panic("fabrica: WithRegistry requires a registry")
	}

	return func(c *config) {
		c.registry = reg
	}
}

// WithProvider replaces the reflect-based type metadata provider.
func WithProvider(p schema.Provider) Option {
	if p == nil {
		panic("fabrica: WithProvider requires a provider")
	}

	return func(c *config) {
		c.provider = p
	}
}

// WithConstraints registers a source of discovered customizations. Its
// customizations apply below every explicit one.
func WithConstraints(src ConstraintSource) Option {
	if src == nil {
		panic("fabrica: WithConstraints requires a source")
	}

	return func(c *config) {
		c.sources = append(c.sources, src)
	}
}
