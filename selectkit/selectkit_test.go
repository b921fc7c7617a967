package selectkit_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fabrica/selectkit"
)

type phone struct {
	CountryCode string
	Number      string
}

type address struct {
	Street string
	City   string
	Phones []phone
}

type person struct {
	FirstName string
	Age       int
	Address   address
}

// ctxFor walks the given field path from root and returns the final context.
// An empty path element descends into a collection element.
func ctxFor(t *testing.T, root reflect.Type, path ...string) *selectkit.Context {
	t.Helper()
	ctx := selectkit.NewContext(root)
	for _, name := range path {
		cur := ctx.Type()
		for cur.Kind() == reflect.Pointer {
			cur = cur.Elem()
		}
		if name == "" {
			require.Contains(t, []reflect.Kind{reflect.Slice, reflect.Array, reflect.Map}, cur.Kind())
			ctx = ctx.Descend(cur, "", cur.Elem())

			continue
		}
		sf, ok := cur.FieldByName(name)
		require.True(t, ok, "field %s on %s", name, cur)
		ctx = ctx.Descend(cur, name, sf.Type)
	}

	return ctx
}

func TestField_BindsToRootType(t *testing.T) {
	root := reflect.TypeOf(person{})
	sel := selectkit.Field("FirstName")

	assert.True(t, selectkit.Match(sel, ctxFor(t, root, "FirstName")))
	// Same field name on a non-root owner must not match.
	assert.False(t, selectkit.Match(selectkit.Field("Street"), ctxFor(t, root, "Address", "Street")))
}

func TestFieldOf_MatchesOwnerAnywhere(t *testing.T) {
	root := reflect.TypeOf(person{})
	sel := selectkit.FieldOf[address]("City")

	assert.True(t, selectkit.Match(sel, ctxFor(t, root, "Address", "City")))
	assert.False(t, selectkit.Match(sel, ctxFor(t, root, "FirstName")))
}

func TestAll_MatchesByExactType(t *testing.T) {
	root := reflect.TypeOf(person{})
	sel := selectkit.AllStrings()

	assert.True(t, selectkit.Match(sel, ctxFor(t, root, "FirstName")))
	assert.True(t, selectkit.Match(sel, ctxFor(t, root, "Address", "City")))
	assert.False(t, selectkit.Match(sel, ctxFor(t, root, "Age")))
}

func TestAll_IgnoresPointerWrapper(t *testing.T) {
	type wrapper struct{ P *phone }
	root := reflect.TypeOf(wrapper{})

	assert.True(t, selectkit.Match(selectkit.All[phone](), ctxFor(t, root, "P")))
}

func TestFields_Predicate(t *testing.T) {
	root := reflect.TypeOf(address{})
	sel := selectkit.Fields(func(sf reflect.StructField) bool {
		return strings.HasPrefix(sf.Name, "C")
	})

	assert.True(t, selectkit.Match(sel, ctxFor(t, root, "City")))
	assert.False(t, selectkit.Match(sel, ctxFor(t, root, "Street")))
	assert.False(t, selectkit.Match(sel, selectkit.NewContext(root)), "root has no owning field")
}

func TestTypes_Predicate(t *testing.T) {
	root := reflect.TypeOf(person{})
	sel := selectkit.Types(func(tt reflect.Type) bool { return tt.Kind() == reflect.Int })

	assert.True(t, selectkit.Match(sel, ctxFor(t, root, "Age")))
	assert.False(t, selectkit.Match(sel, ctxFor(t, root, "FirstName")))
}

func TestRoot_MatchesDepthZeroOnly(t *testing.T) {
	root := reflect.TypeOf(person{})

	assert.True(t, selectkit.Match(selectkit.Root(), selectkit.NewContext(root)))
	assert.False(t, selectkit.Match(selectkit.Root(), ctxFor(t, root, "FirstName")))
}

func TestGroup_AnyMemberMatches(t *testing.T) {
	root := reflect.TypeOf(person{})
	sel := selectkit.Group(selectkit.Field("Age"), selectkit.Field("FirstName"))

	assert.True(t, selectkit.Match(sel, ctxFor(t, root, "Age")))
	assert.True(t, selectkit.Match(sel, ctxFor(t, root, "FirstName")))
	assert.False(t, selectkit.Match(sel, ctxFor(t, root, "Address")))
}

func TestAtDepth_Conjunctive(t *testing.T) {
	root := reflect.TypeOf(person{})
	city := ctxFor(t, root, "Address", "City")

	assert.Equal(t, 2, city.Depth())
	assert.True(t, selectkit.Match(selectkit.AllStrings().AtDepth(2), city))
	assert.False(t, selectkit.Match(selectkit.AllStrings().AtDepth(1), city))
	assert.True(t, selectkit.Match(selectkit.AllStrings().AtDepthWhere(func(d int) bool { return d > 1 }), city))
}

func TestWithin_TypeScope(t *testing.T) {
	root := reflect.TypeOf(person{})
	sel := selectkit.AllStrings().Within(selectkit.ScopeOf[phone]())

	inPhone := ctxFor(t, root, "Address", "Phones", "", "Number")
	outside := ctxFor(t, root, "Address", "City")

	assert.True(t, selectkit.Match(sel, inPhone))
	assert.False(t, selectkit.Match(sel, outside))
}

func TestWithin_FieldScope(t *testing.T) {
	root := reflect.TypeOf(person{})
	sel := selectkit.AllStrings().Within(selectkit.FieldScope[address]("Phones"))

	assert.True(t, selectkit.Match(sel, ctxFor(t, root, "Address", "Phones", "", "Number")))
	assert.False(t, selectkit.Match(sel, ctxFor(t, root, "Address", "Street")))
}

func TestAncestorCount(t *testing.T) {
	type node struct {
		Next  *node
		Value string
	}
	root := reflect.TypeOf(node{})

	ctx := selectkit.NewContext(root)
	assert.Equal(t, 0, ctx.AncestorCount(root), "current position is excluded")

	next := ctxFor(t, root, "Next")
	assert.Equal(t, 1, next.AncestorCount(root))

	nextNext := ctxFor(t, root, "Next", "Next")
	assert.Equal(t, 2, nextNext.AncestorCount(root))
}

func TestSpecificityRanks(t *testing.T) {
	field := selectkit.Field("FirstName")
	typ := selectkit.AllStrings()
	fieldPred := selectkit.Fields(func(reflect.StructField) bool { return true })
	typePred := selectkit.Types(func(reflect.Type) bool { return true })
	group := selectkit.Group(field)

	assert.Greater(t, selectkit.Specificity(field), selectkit.Specificity(typ))
	assert.Greater(t, selectkit.Specificity(typ), selectkit.Specificity(fieldPred))
	assert.Greater(t, selectkit.Specificity(fieldPred), selectkit.Specificity(typePred))
	assert.Greater(t, selectkit.Specificity(typePred), selectkit.Specificity(group))
	assert.Equal(t, selectkit.Specificity(field), selectkit.Specificity(selectkit.Root()))
}

func TestResolvePrecedence_Ordering(t *testing.T) {
	cands := []selectkit.Candidate{
		{Index: 0, Rank: 4},                    // type-exact, declared first
		{Index: 1, Rank: 5},                    // field-exact
		{Index: 2, Rank: 4},                    // type-exact, declared later
		{Index: 3, Rank: 5, Discovered: true},  // external, highest rank
	}

	out, _ := selectkit.ResolvePrecedence(cands)
	require.Len(t, out, 4)
	assert.Equal(t, 1, out[0].Index, "explicit field-exact wins")
	assert.Equal(t, 2, out[1].Index, "later type-exact beats earlier")
	assert.Equal(t, 0, out[2].Index)
	assert.Equal(t, 3, out[3].Index, "discovered ranks below every explicit candidate")
}

func TestResolvePrecedence_TieWarning(t *testing.T) {
	out, warns := selectkit.ResolvePrecedence([]selectkit.Candidate{
		{Index: 0, Rank: 4},
		{Index: 1, Rank: 4},
	})

	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Index, "later declaration wins the tie")
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "ambiguous precedence")
}

func TestResolvePrecedence_Empty(t *testing.T) {
	out, warns := selectkit.ResolvePrecedence(nil)
	assert.Nil(t, out)
	assert.Nil(t, warns)
}

func TestSelectorString(t *testing.T) {
	assert.Equal(t, "field(FirstName)", selectkit.Field("FirstName").String())
	assert.Equal(t, "field(selectkit_test.phone.Number)", selectkit.FieldOf[phone]("Number").String())
	assert.Equal(t, "all(string).atDepth(2)", selectkit.AllStrings().AtDepth(2).String())
	assert.Equal(t, "root()", selectkit.Root().String())
	assert.Contains(t, selectkit.Group(selectkit.Field("A")).String(), "group(field(A))")
	assert.Contains(t,
		selectkit.AllStrings().Within(selectkit.ScopeOf[phone]()).String(),
		".within(scope(selectkit_test.phone))")
}

func TestOverlaps(t *testing.T) {
	assert.True(t, selectkit.Overlaps(selectkit.Field("A"), selectkit.Field("A")))
	assert.False(t, selectkit.Overlaps(selectkit.Field("A"), selectkit.Field("B")))
	assert.True(t, selectkit.Overlaps(selectkit.FieldOf[person]("Age"), selectkit.Field("Age")))
	assert.False(t, selectkit.Overlaps(selectkit.FieldOf[person]("Age"), selectkit.FieldOf[address]("Age")))
	assert.True(t, selectkit.Overlaps(selectkit.All[person](), selectkit.All[person]()))
	assert.False(t, selectkit.Overlaps(selectkit.All[person](), selectkit.All[address]()))
	assert.True(t, selectkit.Overlaps(selectkit.Root(), selectkit.Root()))
	assert.True(t, selectkit.Overlaps(
		selectkit.Group(selectkit.Field("X"), selectkit.Field("Y")),
		selectkit.Field("Y")))
	assert.False(t, selectkit.Overlaps(
		selectkit.Types(func(reflect.Type) bool { return true }),
		selectkit.Field("A")),
		"predicate overlap is not statically decidable")
}
