package fabrica

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/katalvlaran/fabrica/feed"
	"github.com/katalvlaran/fabrica/schema"
	"github.com/katalvlaran/fabrica/selectkit"
)

// position is one populated location in a built object graph.
type position struct {
	val reflect.Value
	ctx *selectkit.Context
}

// collect walks the populated value graph and gathers every position the
// selector matches. The walk mirrors population's context construction
// (fields descend, elements descend with an index, pointer and interface
// dereference keep the position), so selectors address the same locations in
// both phases.
func (r *run) collect(root reflect.Value, rootT reflect.Type, sel selectkit.Selector) []position {
	var out []position

	var walk func(v reflect.Value, ctx *selectkit.Context)
	walk = func(v reflect.Value, ctx *selectkit.Context) {
		if ctx.Depth() > r.pop.maxDepth {
			return
		}
		if selectkit.Match(sel, ctx) {
			out = append(out, position{val: derefTarget(v), ctx: ctx})
		}

		// Pointer and interface wrappers dereference without re-matching: the
		// wrapper and its pointee are one position, resolved once, just as in
		// population.
		for (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && !v.IsNil() {
			if v.Kind() == reflect.Pointer {
				ctx = ctx.WithType(v.Type().Elem())
				v = v.Elem()
			} else {
				v = v.Elem()
				ctx = ctx.WithType(v.Type())
			}
		}

		t := v.Type()
		switch t.Kind() {
		case reflect.Struct:
			if schema.IsLeafType(t) {
				return
			}
			for i := 0; i < t.NumField(); i++ {
				f := t.Field(i)
				if f.PkgPath != "" {
					continue
				}
				walk(v.Field(i), ctx.Descend(t, f.Name, f.Type))
			}
		case reflect.Slice, reflect.Array:
			if schema.IsLeafType(t) {
				return
			}
			for i := 0; i < v.Len(); i++ {
				walk(v.Index(i), ctx.DescendElem(t, i, t.Elem()))
			}
		case reflect.Map:
			i := 0
			for it := v.MapRange(); it.Next(); {
				walk(it.Value(), ctx.DescendElem(t, i, t.Elem()))
				i++
			}
		}
	}
	walk(root, selectkit.NewContext(rootT))

	return out
}

// derefTarget unwraps non-nil pointers so readers and writers address the
// pointee; a nil pointer stays as-is so a writer can still allocate it.
func derefTarget(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	return v
}

// bindFeeds decodes one feed record into every struct position matched by
// each binding: the next row in declaration order, or the row joined via the
// lookup-key column.
func (r *run) bindFeeds(root reflect.Value, rootT reflect.Type) error {
	for _, fb := range r.cfg.feeds {
		for _, pos := range r.collect(root, rootT, fb.sel) {
			// Pointer positions arrive dereferenced; what remains to skip is a
			// nil pointer, a non-struct match or an unaddressable map value.
			if pos.val.Kind() != reflect.Struct || !pos.val.CanAddr() {
				continue
			}
			if err := bindRecord(fb, pos.val); err != nil {
				return err
			}
		}
	}

	return nil
}

// bindRecord fetches the record for one instance and decodes it over the
// generated fields. Columns without a matching field are ignored; fields
// without a column keep their generated values.
func bindRecord(fb feedBinding, v reflect.Value) error {
	var rec feed.Record
	var err error

	if key := fb.f.KeyColumn(); key != "" {
		field := fb.f.FieldFor(key)
		fv := v.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, field) })
		if !fv.IsValid() {
			return fmt.Errorf("fabrica: feed key field %q not found on %s", field, v.Type())
		}
		rec, err = fb.f.Lookup(key, fv.Interface())
	} else {
		rec, err = fb.f.Next()
	}
	if err != nil {
		return fmt.Errorf("fabrica: feed binding at %s: %w", fb.sel, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           v.Addr().Interface(),
	})
	if err != nil {
		return fmt.Errorf("fabrica: feed binding at %s: %w", fb.sel, err)
	}
	if err := dec.Decode(rec.Fields()); err != nil {
		return fmt.Errorf("fabrica: feed binding at %s: %w", fb.sel, err)
	}

	return nil
}

// applyAssignments evaluates the declared assignments in dependency order.
// Sources are re-collected per assignment so earlier assignments feed later
// ones; each target derives from the source sharing the longest ancestor
// chain, keeping derivations within one sub-object when the selectors match
// several.
func (r *run) applyAssignments(root reflect.Value, rootT reflect.Type) error {
	for _, idx := range r.order {
		a := r.cfg.assignments[idx]

		targets := r.collect(root, rootT, a.Target())
		if len(targets) == 0 {
			continue
		}
		sources := r.collect(root, rootT, a.Source())
		if len(sources) == 0 {
			return fmt.Errorf("%w: %s", ErrNoSourceMatch, a.Source())
		}

		for _, tgt := range targets {
			if !tgt.val.CanSet() {
				continue
			}
			src := nearestSource(tgt, sources)
			out, ok, err := a.Derive(src.val.Interface())
			if err != nil {
				return fmt.Errorf("fabrica: assignment %s to %s: %w", a.Source(), a.Target(), err)
			}
			if !ok {
				continue // no branch matched and no Else: keep the generated value
			}
			if err := assignValue(tgt.val, out, a.Target()); err != nil {
				return err
			}
		}
	}

	return nil
}

// nearestSource picks the source whose ancestor chain shares the longest
// prefix with the target's.
func nearestSource(tgt position, sources []position) position {
	best, bestLen := sources[0], -1
	for _, s := range sources {
		if n := commonPrefix(tgt.ctx.Chain(), s.ctx.Chain()); n > bestLen {
			best, bestLen = s, n
		}
	}

	return best
}

func commonPrefix(a, b []selectkit.Link) int {
	n := 0
	for n < len(a) && n < len(b) && sameLink(a[n], b[n]) {
		n++
	}

	return n
}

func sameLink(x, y selectkit.Link) bool {
	return x.Owner == y.Owner && x.Field == y.Field && x.Elem == y.Elem && x.Type == y.Type
}
