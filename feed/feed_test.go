package feed_test

import (
	"errors"
	"testing"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fabrica/feed"
)

func personRows() feed.Source {
	return feed.OfRows(
		feed.Row{"firstName": "John", "lastName": "Doe", "age": "21"},
		feed.Row{"firstName": "Alice", "lastName": "Smith", "age": "34"},
		feed.Row{"firstName": "Bobby", "lastName": "Brown", "age": "15"},
	)
}

func TestNew_NoRows(t *testing.T) {
	_, err := feed.New(feed.OfRows())
	assert.ErrorIs(t, err, feed.ErrNoRows)
}

type failingSource struct{}

func (failingSource) Rows() ([]feed.Row, error) { return nil, errors.New("boom") }

func TestNew_SourceError(t *testing.T) {
	_, err := feed.New(failingSource{})
	assert.Error(t, err)
}

func TestNext_SequentialOrderAndExhaustion(t *testing.T) {
	f, err := feed.New(personRows())
	require.NoError(t, err)

	names := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		rec, nerr := f.Next()
		require.NoError(t, nerr)
		name, serr := rec.String("firstName")
		require.NoError(t, serr)
		names = append(names, name)
	}
	assert.Equal(t, []string{"John", "Alice", "Bobby"}, names, "row i binds to instance i")

	_, err = f.Next()
	assert.ErrorIs(t, err, feed.ErrExhausted, "sequential policy fails fast, never silently reuses rows")
}

func TestNext_CyclePolicyWraps(t *testing.T) {
	f, err := feed.New(personRows(), feed.WithPolicy(feed.Cycle))
	require.NoError(t, err)

	var last string
	for i := 0; i < 4; i++ {
		rec, nerr := f.Next()
		require.NoError(t, nerr)
		last, _ = rec.String("firstName")
	}
	assert.Equal(t, "John", last, "instance 4 receives row 1 again")
}

func TestRecord_TypedCoercion(t *testing.T) {
	f, err := feed.New(personRows())
	require.NoError(t, err)

	rec, err := f.Next()
	require.NoError(t, err)

	age, err := rec.Int("age")
	require.NoError(t, err)
	assert.Equal(t, 21, age, "CSV-shaped string column coerces to int")

	_, err = rec.Get("missing")
	assert.ErrorIs(t, err, feed.ErrUnknownColumn)
}

func TestTemplateColumn(t *testing.T) {
	f, err := feed.New(personRows(),
		feed.WithTemplate("fullName", "${firstName} ${lastName}"))
	require.NoError(t, err)

	rec, err := f.Next()
	require.NoError(t, err)
	full, err := rec.String("fullName")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", full)
}

func TestTemplateColumn_UnknownReference(t *testing.T) {
	_, err := feed.New(personRows(),
		feed.WithTemplate("fullName", "${firstName} ${surname}"))
	assert.ErrorIs(t, err, feed.ErrUnknownColumn, "bad template surfaces at build time")
}

func TestDerivedColumn(t *testing.T) {
	f, err := feed.New(personRows(),
		feed.WithDerived("isAdult", func(row feed.Row) (any, error) {
			age, err := cast.ToIntE(row["age"])
			if err != nil {
				return nil, err
			}

			return age >= 18, nil
		}))
	require.NoError(t, err)

	adults := make([]bool, 0, 3)
	for i := 0; i < 3; i++ {
		rec, nerr := f.Next()
		require.NoError(t, nerr)
		ok, berr := rec.Bool("isAdult")
		require.NoError(t, berr)
		adults = append(adults, ok)
	}
	assert.Equal(t, []bool{true, true, false}, adults)
}

func TestLookup_ByKey(t *testing.T) {
	f, err := feed.New(personRows(), feed.WithKey("firstName"))
	require.NoError(t, err)
	assert.Equal(t, "firstName", f.KeyColumn())

	rec, err := f.Lookup("firstName", "Alice")
	require.NoError(t, err)
	age, err := rec.Int("age")
	require.NoError(t, err)
	assert.Equal(t, 34, age)

	_, err = f.Lookup("firstName", "Nobody")
	assert.ErrorIs(t, err, feed.ErrNoMatch)
}

func TestMappings_AppliedInFields(t *testing.T) {
	f, err := feed.New(personRows(), feed.WithMapping("firstName", "FirstName"))
	require.NoError(t, err)

	rec, err := f.Next()
	require.NoError(t, err)
	fields := rec.Fields()
	assert.Equal(t, "John", fields["FirstName"])
	assert.NotContains(t, fields, "firstName")
	assert.Equal(t, "FirstName", f.FieldFor("firstName"))
	assert.Equal(t, "age", f.FieldFor("age"), "unmapped columns keep their name")
}

func TestReset(t *testing.T) {
	f, err := feed.New(personRows())
	require.NoError(t, err)

	first, err := f.Next()
	require.NoError(t, err)
	f.Reset()
	again, err := f.Next()
	require.NoError(t, err)

	a, _ := first.String("firstName")
	b, _ := again.String("firstName")
	assert.Equal(t, a, b)
}
