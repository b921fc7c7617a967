package fabrica

import (
	"fmt"
	"math/rand"
	"reflect"

	"github.com/katalvlaran/fabrica/genval"
	"github.com/katalvlaran/fabrica/schema"
	"github.com/katalvlaran/fabrica/selectkit"
	"github.com/katalvlaran/fabrica/settings"
)

// completion is one deferred callback: a value captured at its position,
// invoked after the whole root object is built.
type completion struct {
	fn  func(reflect.Value)
	val reflect.Value
}

// populator walks the type graph and fills values in place. One populator
// serves one run; it owns the RNG, the resolved settings, the uniqueness
// state (shared across a CreateList batch) and the completion queue.
type populator struct {
	cfg      *config
	provider schema.Provider
	registry *genval.Registry
	rnd      *rand.Rand

	maxDepth    int
	selfRef     int
	colMin      int
	colMax      int
	retryBudget int
	nullProb    float64

	warnings    []selectkit.Warning
	warned      map[string]struct{}
	unique      map[int]map[string]struct{}
	completions []completion
}

func newPopulator(cfg *config, rnd *rand.Rand) *populator {
	st := cfg.settingsView()

	return &populator{
		cfg:         cfg,
		provider:    cfg.provider,
		registry:    cfg.registry,
		rnd:         rnd,
		maxDepth:    st.Int(settings.MaxDepth),
		selfRef:     st.Int(settings.SelfReferenceDepth),
		colMin:      st.Int(settings.CollectionMinSize),
		colMax:      st.Int(settings.CollectionMaxSize),
		retryBudget: st.Int(settings.RetryBudget),
		nullProb:    st.Float64(settings.NullableProbability),
		warned:      make(map[string]struct{}),
		unique:      make(map[int]map[string]struct{}),
	}
}

// populateRoot builds one root instance in place, then drains the completion
// queue. Completions were appended post-order during the walk, so children
// fire before their parents.
func (p *populator) populateRoot(dst reflect.Value, rootT reflect.Type) error {
	p.completions = p.completions[:0]
	if err := p.populate(dst, selectkit.NewContext(rootT)); err != nil {
		return err
	}
	for _, c := range p.completions {
		c.fn(c.val)
	}

	return nil
}

// resolved is the outcome of matching all customizations at one position:
// one winning value action, one winning subtype, and the accumulated
// modifiers.
type resolved struct {
	value     *customization
	subtype   reflect.Type
	nullable  bool
	uniques   []*customization
	filters   []*customization
	completes []*customization
}

// resolve matches every customization against the position and applies the
// precedence rules: value actions (set/generate/ignore/blank) and subtypes
// each pick a single winner; nullable, unique, filter and onComplete are
// modifiers and all matches accumulate.
func (p *populator) resolve(ctx *selectkit.Context) resolved {
	var res resolved
	var valueCands, subtypeCands []selectkit.Candidate

	for i := range p.cfg.customs {
		cu := &p.cfg.customs[i]
		if !selectkit.Match(cu.sel, ctx) {
			continue
		}
		cand := selectkit.Candidate{
			Index:      cu.index,
			Rank:       selectkit.Specificity(cu.sel),
			Discovered: cu.discovered,
		}
		switch cu.kind {
		case actSet, actGenerate, actIgnore, actBlank:
			valueCands = append(valueCands, cand)
		case actSubtype:
			subtypeCands = append(subtypeCands, cand)
		case actNullable:
			res.nullable = true
		case actUnique:
			res.uniques = append(res.uniques, cu)
		case actFilter:
			res.filters = append(res.filters, cu)
		case actOnComplete:
			res.completes = append(res.completes, cu)
		}
	}

	if len(valueCands) > 0 {
		ordered, warns := selectkit.ResolvePrecedence(valueCands)
		p.addWarnings(warns)
		res.value = &p.cfg.customs[ordered[0].Index]
	}
	if len(subtypeCands) > 0 {
		ordered, warns := selectkit.ResolvePrecedence(subtypeCands)
		p.addWarnings(warns)
		res.subtype = p.cfg.customs[ordered[0].Index].subtype
	}

	return res
}

// addWarnings records precedence warnings once per run: the same ambiguous
// pair surfaces at every position it matches and at every batch instance, but
// it describes a single configuration problem.
func (p *populator) addWarnings(warns []selectkit.Warning) {
	for _, w := range warns {
		if _, seen := p.warned[w.Message]; seen {
			continue
		}
		p.warned[w.Message] = struct{}{}
		p.warnings = append(p.warnings, w)
	}
}

// populate fills one position in place.
func (p *populator) populate(dst reflect.Value, ctx *selectkit.Context) error {
	res := p.resolve(ctx)

	// 1. Ignore wins outright: zero value, no recursion, no callbacks.
	if res.value != nil && res.value.kind == actIgnore {
		return nil
	}

	// 2. Nullable coin: zero value with the configured probability.
	if res.nullable && p.rnd.Float64() < p.nullProb {
		return nil
	}

	// 3. Depth and self-reference guards stop silently with the zero value.
	if p.depthStop(dst.Type(), ctx) {
		return nil
	}

	// 4. Generate, wrapped in a retry loop when unique/filter constraints
	// apply to this position.
	if len(res.uniques) == 0 && len(res.filters) == 0 {
		if err := p.generate(dst, ctx, res); err != nil {
			return err
		}
	} else if err := p.generateConstrained(dst, ctx, res); err != nil {
		return err
	}

	// 5. Defer completion callbacks post-order, on the dereferenced value so
	// each callback fires once per object.
	if len(res.completes) > 0 {
		val := dst
		for val.Kind() == reflect.Pointer && !val.IsNil() {
			val = val.Elem()
		}
		if val.Kind() != reflect.Pointer {
			for _, cu := range res.completes {
				p.completions = append(p.completions, completion{fn: cu.onComplete, val: val})
			}
		}
	}

	return nil
}

// depthStop reports whether generation stops at this position: composites
// stop at the depth limit or the self-reference limit, scalars one level
// deeper (so the limit still yields populated leaves at the boundary).
func (p *populator) depthStop(t reflect.Type, ctx *selectkit.Context) bool {
	d := ctx.Depth()
	base := baseOf(t)

	switch base.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map, reflect.Interface:
		if schema.IsLeafType(base) {
			return d > p.maxDepth
		}
		if d > 0 && d >= p.maxDepth {
			return true
		}

		return base.Kind() == reflect.Struct && ctx.AncestorCount(base) >= p.selfRef
	default:
		return d > p.maxDepth
	}
}

// generateConstrained regenerates dst until every filter passes and the
// value is unused by every unique constraint, bounded by the retry budget.
// Completions deferred by a rejected attempt are discarded with it.
func (p *populator) generateConstrained(dst reflect.Value, ctx *selectkit.Context, res resolved) error {
	t := dst.Type()
	for attempt := 0; attempt < p.retryBudget; attempt++ {
		mark := len(p.completions)
		dst.Set(reflect.Zero(t))
		if err := p.generate(dst, ctx, res); err != nil {
			return err
		}

		v := dst.Interface()
		if !filtersPass(res.filters, v) || p.uniqueClash(res.uniques, v) {
			p.completions = p.completions[:mark]

			continue
		}
		p.recordUnique(res.uniques, v)

		return nil
	}

	return fmt.Errorf("%w: %s after %d attempts",
		ErrGenerationExhausted, constraintSelector(res), p.retryBudget)
}

// constraintSelector names the constraint that exhausted the budget.
func constraintSelector(res resolved) selectkit.Selector {
	if len(res.filters) > 0 {
		return res.filters[0].sel
	}

	return res.uniques[0].sel
}

func filtersPass(filters []*customization, v any) bool {
	for _, cu := range filters {
		if !cu.filter(v) {
			return false
		}
	}

	return true
}

// uniqueKey folds a value to its uniqueness identity. %v keeps semantically
// equal values (e.g. identical structs) on one key.
func uniqueKey(v any) string { return fmt.Sprintf("%v", v) }

func (p *populator) uniqueClash(uniques []*customization, v any) bool {
	key := uniqueKey(v)
	for _, cu := range uniques {
		if _, seen := p.unique[cu.index][key]; seen {
			return true
		}
	}

	return false
}

func (p *populator) recordUnique(uniques []*customization, v any) {
	key := uniqueKey(v)
	for _, cu := range uniques {
		set := p.unique[cu.index]
		if set == nil {
			set = make(map[string]struct{})
			p.unique[cu.index] = set
		}
		set[key] = struct{}{}
	}
}

// generate produces the value for one position, honoring the winning value
// action, the winning subtype, or the type's default generation.
func (p *populator) generate(dst reflect.Value, ctx *selectkit.Context, res resolved) error {
	// Collection sizing directives ride the Generate action but only adjust
	// element-count bounds; the elements themselves still generate
	// recursively.
	lo, hi := p.colMin, p.colMax
	if res.value != nil && res.value.kind == actGenerate {
		if cg, ok := res.value.gen.(genval.CollectionGen); ok {
			lo, hi = cg.Bounds(lo, hi)
			res.value = nil
		}
	}

	if res.value != nil {
		switch res.value.kind {
		case actSet:
			return assignValue(dst, res.value.value, res.value.sel)
		case actGenerate:
			out, err := res.value.gen.Generate(p.rnd)
			if err != nil {
				return fmt.Errorf("fabrica: generator at %s: %w", res.value.sel, err)
			}
			if err := assignValue(dst, out, res.value.sel); err != nil {
				return err
			}

			return p.populateProduced(dst, ctx)
		case actBlank:
			return allocateBlank(dst)
		}
	}

	if res.subtype != nil && res.subtype != baseOf(dst.Type()) {
		return p.buildSubtype(dst, ctx, res.subtype, lo, hi)
	}

	return p.defaultGenerate(dst, ctx, lo, hi)
}

// populateProduced fills in the zero-valued fields of a struct produced by a
// generator override. The override keeps every field it set; the engine
// supplies the rest, so partial struct generators compose with default
// generation. Leaf-producing generators terminate recursion here.
func (p *populator) populateProduced(dst reflect.Value, ctx *selectkit.Context) error {
	val, c := dst, ctx
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
		c = c.WithType(val.Type())
	}

	t := val.Type()
	if t.Kind() != reflect.Struct || schema.IsLeafType(t) {
		return nil
	}
	node, err := p.provider.Node(t)
	if err != nil {
		return err
	}

	for _, f := range node.Fields {
		fv := val.Field(f.Index)
		if !fv.IsZero() {
			continue
		}
		if err := p.populate(fv, c.Descend(t, f.Name, f.Type)); err != nil {
			return err
		}
	}

	return nil
}

// allocateBlank allocates the position without populating it: pointers come
// back non-nil, collections and maps empty non-nil, everything else stays
// zero.
func allocateBlank(dst reflect.Value) error {
	t := dst.Type()
	switch t.Kind() {
	case reflect.Pointer:
		dst.Set(reflect.New(t.Elem()))
	case reflect.Slice:
		dst.Set(reflect.MakeSlice(t, 0, 0))
	case reflect.Map:
		dst.Set(reflect.MakeMap(t))
	}

	return nil
}

// buildSubtype builds a value of the concrete type and stores it at the
// abstract position, wrapping in a pointer when the interface is satisfied
// via pointer receivers.
func (p *populator) buildSubtype(dst reflect.Value, ctx *selectkit.Context, concrete reflect.Type, lo, hi int) error {
	t := dst.Type()
	switch {
	case concrete.AssignableTo(t):
		v := reflect.New(concrete).Elem()
		if err := p.defaultGenerate(v, ctx.WithType(concrete), lo, hi); err != nil {
			return err
		}
		dst.Set(v)
	case reflect.PointerTo(concrete).AssignableTo(t):
		pv := reflect.New(concrete)
		if err := p.defaultGenerate(pv.Elem(), ctx.WithType(concrete), lo, hi); err != nil {
			return err
		}
		dst.Set(pv)
	default:
		return fmt.Errorf("%w: subtype %s for %s", ErrIncompatibleValue, concrete, t)
	}

	return nil
}

// defaultGenerate fills dst via the registry (leaves) or structural
// recursion (composites). Pointer dereference keeps the position, so actions
// resolved at the pointer are not re-resolved for the pointee.
func (p *populator) defaultGenerate(dst reflect.Value, ctx *selectkit.Context, lo, hi int) error {
	t := dst.Type()
	node, err := p.provider.Node(t)
	if err != nil {
		return err
	}

	switch node.Kind {
	case schema.Leaf:
		g, ok := p.registry.Lookup(t)
		if !ok {
			return fmt.Errorf("%w: %s (no generator registered)", ErrUnresolvableType, t)
		}
		out, err := g.Generate(p.rnd)
		if err != nil {
			return fmt.Errorf("fabrica: default generator for %s: %w", t, err)
		}

		return assignValue(dst, out, selectkit.AllOf(t))

	case schema.Struct:
		for _, f := range node.Fields {
			if err := p.populate(dst.Field(f.Index), ctx.Descend(t, f.Name, f.Type)); err != nil {
				return err
			}
		}

		return nil

	case schema.Slice:
		n := p.sizeIn(lo, hi)
		s := reflect.MakeSlice(t, n, n)
		for i := 0; i < n; i++ {
			if err := p.populate(s.Index(i), ctx.DescendElem(t, i, node.Elem)); err != nil {
				return err
			}
		}
		dst.Set(s)

		return nil

	case schema.Array:
		for i := 0; i < node.Len; i++ {
			if err := p.populate(dst.Index(i), ctx.DescendElem(t, i, node.Elem)); err != nil {
				return err
			}
		}

		return nil

	case schema.Map:
		n := p.sizeIn(lo, hi)
		m := reflect.MakeMap(t)
		for i := 0; i < n; i++ {
			k := reflect.New(node.Key).Elem()
			if err := p.populate(k, ctx.DescendElem(t, i, node.Key)); err != nil {
				return err
			}
			v := reflect.New(node.Elem).Elem()
			if err := p.populate(v, ctx.DescendElem(t, i, node.Elem)); err != nil {
				return err
			}
			m.SetMapIndex(k, v)
		}
		dst.Set(m)

		return nil

	case schema.Pointer:
		pv := reflect.New(node.Elem)
		if err := p.defaultGenerate(pv.Elem(), ctx.WithType(node.Elem), lo, hi); err != nil {
			return err
		}
		dst.Set(pv)

		return nil

	case schema.Interface:
		// An exact-type generator may produce the interface value directly.
		if g, ok := p.registry.Lookup(t); ok {
			out, err := g.Generate(p.rnd)
			if err != nil {
				return fmt.Errorf("fabrica: default generator for %s: %w", t, err)
			}

			return assignValue(dst, out, selectkit.AllOf(t))
		}

		return fmt.Errorf("%w: interface %s (declare a subtype or register a generator)",
			ErrUnresolvableType, t)

	default: // schema.Opaque: channels, funcs; left zero
		return nil
	}
}

// sizeIn draws an element count in [lo, hi].
func (p *populator) sizeIn(lo, hi int) int {
	if hi <= lo {
		return lo
	}

	return lo + p.rnd.Intn(hi-lo+1)
}

// kind families for conversion: generated values may cross named types and
// widths within a family, but never jump families (no int→string).
type kindFamily uint8

const (
	famNone kindFamily = iota
	famNumeric
	famString
	famBool
)

func familyOf(k reflect.Kind) kindFamily {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64:
		return famNumeric
	case reflect.String:
		return famString
	case reflect.Bool:
		return famBool
	default:
		return famNone
	}
}

func convertibleKinds(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	f := familyOf(from.Kind())

	return f != famNone && f == familyOf(to.Kind())
}

// assignValue stores v at dst, converting within kind families and wrapping
// element values for pointer targets. sel names the responsible position in
// the error.
func assignValue(dst reflect.Value, v any, sel selectkit.Selector) error {
	t := dst.Type()
	if v == nil {
		dst.Set(reflect.Zero(t))

		return nil
	}
	rv := reflect.ValueOf(v)

	switch {
	case rv.Type().AssignableTo(t):
		dst.Set(rv)
	case convertibleKinds(rv.Type(), t):
		dst.Set(rv.Convert(t))
	case t.Kind() == reflect.Pointer && rv.Type().AssignableTo(t.Elem()):
		pv := reflect.New(t.Elem())
		pv.Elem().Set(rv)
		dst.Set(pv)
	case t.Kind() == reflect.Pointer && convertibleKinds(rv.Type(), t.Elem()):
		pv := reflect.New(t.Elem())
		pv.Elem().Set(rv.Convert(t.Elem()))
		dst.Set(pv)
	default:
		return fmt.Errorf("%w: %s at %s (target %s)", ErrIncompatibleValue, rv.Type(), sel, t)
	}

	return nil
}

// baseOf strips pointer wrappers off t.
func baseOf(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}
