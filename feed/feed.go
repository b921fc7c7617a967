package feed

import (
	"fmt"
	"regexp"
	"time"

	"github.com/spf13/cast"
)

// DeriveFunc computes one derived column value from the raw row.
// Implementations must be pure: same row ⇒ same value.
type DeriveFunc func(Row) (any, error)

// Option configures a Feed before its rows are materialized.
type Option func(*Feed)

// WithPolicy sets the exhaustion policy (default Sequential).
func WithPolicy(p Policy) Option {
	return func(f *Feed) { f.policy = p }
}

// WithTemplate declares a derived string column interpolating "${col}"
// references across the raw columns of each row.
func WithTemplate(column, template string) Option {
	if column == "" || template == "" {
		panic("feed: WithTemplate requires a column name and a template")
	}

	return func(f *Feed) { f.templates[column] = template }
}

// WithDerived declares a derived typed column computed by a pure function
// over the raw row.
func WithDerived(column string, fn DeriveFunc) Option {
	if column == "" || fn == nil {
		panic("feed: WithDerived requires a column name and a function")
	}

	return func(f *Feed) { f.derived[column] = fn }
}

// WithMapping renames a column to a target field name for binding.
func WithMapping(column, field string) Option {
	if column == "" || field == "" {
		panic("feed: WithMapping requires a column and a field name")
	}

	return func(f *Feed) { f.mappings[column] = field }
}

// WithKey declares the lookup-key column: instead of binding rows to
// instances by ordinal position, each instance is joined to the row whose
// key column equals the instance's mapped field value.
func WithKey(column string) Option {
	if column == "" {
		panic("feed: WithKey requires a column name")
	}

	return func(f *Feed) { f.keyColumn = column }
}

// Feed is an eagerly-read row source decorated with derived columns and an
// explicit exhaustion policy. A Feed owns a cursor and must not be shared
// across concurrent runs.
type Feed struct {
	rows      []Row
	cursor    int
	policy    Policy
	templates map[string]string
	derived   map[string]DeriveFunc
	mappings  map[string]string
	keyColumn string
}

// New builds a Feed by reading all rows from the source eagerly and applying
// the options. A source yielding zero rows fails with ErrNoRows; template
// and derived columns are validated against the first row so configuration
// mistakes surface at build time, not mid-run.
func New(src Source, opts ...Option) (*Feed, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrNoRows)
	}
	rows, err := src.Rows()
	if err != nil {
		return nil, fmt.Errorf("feed: reading source: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	f := &Feed{
		rows:      rows,
		templates: make(map[string]string),
		derived:   make(map[string]DeriveFunc),
		mappings:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}

	for col, tmpl := range f.templates {
		if _, err = interpolate(tmpl, rows[0]); err != nil {
			return nil, fmt.Errorf("feed: template column %q: %w", col, err)
		}
	}
	if f.keyColumn != "" {
		if _, ok := rows[0][f.keyColumn]; !ok {
			return nil, fmt.Errorf("%w: key column %q", ErrUnknownColumn, f.keyColumn)
		}
	}

	return f, nil
}

// Len reports the number of rows read from the source.
func (f *Feed) Len() int { return len(f.rows) }

// Policy reports the configured exhaustion policy.
func (f *Feed) Policy() Policy { return f.policy }

// KeyColumn reports the lookup-key column ("" when binding is ordinal).
func (f *Feed) KeyColumn() string { return f.keyColumn }

// FieldFor resolves the bound field name for a column, honoring mappings.
func (f *Feed) FieldFor(column string) string {
	if field, ok := f.mappings[column]; ok {
		return field
	}

	return column
}

// Reset rewinds the cursor to the first row.
func (f *Feed) Reset() { f.cursor = 0 }

// Next returns the record for the next row, advancing the cursor. On
// exhaustion, Cycle wraps to the first row and Sequential fails with
// ErrExhausted.
func (f *Feed) Next() (Record, error) {
	if f.cursor >= len(f.rows) {
		if f.policy != Cycle {
			return Record{}, fmt.Errorf("%w: %d rows consumed", ErrExhausted, len(f.rows))
		}
		f.cursor = 0
	}
	row := f.rows[f.cursor]
	f.cursor++

	return f.record(row)
}

// Lookup returns the record for the first row whose key column equals the
// given value (string-coerced comparison, so "21" joins 21). Fails with
// ErrNoMatch when no row qualifies.
func (f *Feed) Lookup(column string, value any) (Record, error) {
	want := cast.ToString(value)
	for _, row := range f.rows {
		got, ok := row[column]
		if !ok {
			return Record{}, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
		}
		if cast.ToString(got) == want {
			return f.record(row)
		}
	}

	return Record{}, fmt.Errorf("%w: %s=%v", ErrNoMatch, column, value)
}

// record materializes one row: raw columns, then templates, then derived
// functions (so a derived function may read a template column).
func (f *Feed) record(raw Row) (Record, error) {
	row := make(Row, len(raw)+len(f.templates)+len(f.derived))
	for k, v := range raw {
		row[k] = v
	}
	for col, tmpl := range f.templates {
		v, err := interpolate(tmpl, raw)
		if err != nil {
			return Record{}, fmt.Errorf("feed: template column %q: %w", col, err)
		}
		row[col] = v
	}
	for col, fn := range f.derived {
		v, err := fn(row)
		if err != nil {
			return Record{}, fmt.Errorf("feed: derived column %q: %w", col, err)
		}
		row[col] = v
	}

	return Record{row: row, feed: f}, nil
}

// templateRef matches ${column} references inside templates.
var templateRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolate substitutes ${col} references with string-coerced row values.
func interpolate(template string, row Row) (string, error) {
	var missing string
	out := templateRef.ReplaceAllStringFunc(template, func(ref string) string {
		col := ref[2 : len(ref)-1]
		v, ok := row[col]
		if !ok {
			missing = col

			return ref
		}

		return cast.ToString(v)
	})
	if missing != "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, missing)
	}

	return out, nil
}

// Record is one materialized row with typed access.
type Record struct {
	row  Row
	feed *Feed
}

// Get returns the raw value of a column.
func (r Record) Get(column string) (any, error) {
	v, ok := r.row[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	return v, nil
}

// String returns the column coerced to string.
func (r Record) String(column string) (string, error) {
	v, err := r.Get(column)
	if err != nil {
		return "", err
	}

	return cast.ToString(v), nil
}

// Int returns the column coerced to int.
func (r Record) Int(column string) (int, error) {
	v, err := r.Get(column)
	if err != nil {
		return 0, err
	}

	return cast.ToIntE(v)
}

// Bool returns the column coerced to bool.
func (r Record) Bool(column string) (bool, error) {
	v, err := r.Get(column)
	if err != nil {
		return false, err
	}

	return cast.ToBoolE(v)
}

// Float64 returns the column coerced to float64.
func (r Record) Float64(column string) (float64, error) {
	v, err := r.Get(column)
	if err != nil {
		return 0, err
	}

	return cast.ToFloat64E(v)
}

// Time returns the column coerced to time.Time.
func (r Record) Time(column string) (time.Time, error) {
	v, err := r.Get(column)
	if err != nil {
		return time.Time{}, err
	}

	return cast.ToTimeE(v)
}

// Fields returns the record as a field-name → value map with column
// mappings applied, ready for struct binding.
func (r Record) Fields() map[string]any {
	out := make(map[string]any, len(r.row))
	for col, v := range r.row {
		out[r.feed.FieldFor(col)] = v
	}

	return out
}
