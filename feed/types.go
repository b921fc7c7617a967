package feed

import "errors"

// Sentinel errors for feed construction and consumption.
var (
	// ErrExhausted indicates the source ran out of rows under the Sequential
	// policy.
	ErrExhausted = errors.New("feed: data source exhausted")

	// ErrNoRows indicates the source supplied no rows at all.
	ErrNoRows = errors.New("feed: data source has no rows")

	// ErrUnknownColumn indicates a template, function, mapping or getter
	// referenced a column absent from the source.
	ErrUnknownColumn = errors.New("feed: unknown column")

	// ErrNoMatch indicates a lookup-key join found no row for a value.
	ErrNoMatch = errors.New("feed: no row matches lookup value")
)

// Row is one record of named column values.
type Row map[string]any

// Source supplies the ordered rows of an external data source. Rows must
// return the same ordered content on every call; the Feed reads it once,
// eagerly.
type Source interface {
	Rows() ([]Row, error)
}

// rowsSource adapts a pre-parsed row slice to Source.
type rowsSource struct {
	rows []Row
}

// OfRows returns an in-memory Source over the given rows.
func OfRows(rows ...Row) Source {
	rs := make([]Row, len(rows))
	copy(rs, rows)

	return rowsSource{rows: rs}
}

// Rows implements Source.
func (s rowsSource) Rows() ([]Row, error) { return s.rows, nil }

// Policy selects the cursor behavior when rows run out before instances do.
type Policy uint8

const (
	// Sequential assigns row i to instance i and fails with ErrExhausted
	// when rows run out. This is the default: exhaustion is never silent.
	Sequential Policy = iota

	// Cycle wraps to the first row when rows run out.
	Cycle
)
