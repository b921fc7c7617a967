package selectkit

// Overlaps reports whether two selectors can provably target the same
// position, judged statically (no traversal context). It is used by the
// assignment resolver to build the dependency graph between assignments.
//
// The check is deliberately conservative in the decidable direction only:
//   - field vs field: same field name and compatible owners;
//   - type vs type: identical target types;
//   - root vs root: always;
//   - groups: any member overlaps;
//   - predicate selectors: reported as non-overlapping — their positions are
//     unknowable without a live traversal, so cycles through them surface at
//     resolve time instead of build time.
func Overlaps(a, b Selector) bool {
	if a.v == variantGroup {
		for _, m := range a.members {
			if Overlaps(m, b) {
				return true
			}
		}

		return false
	}
	if b.v == variantGroup {
		return Overlaps(b, a)
	}

	switch {
	case a.v == variantField && b.v == variantField:
		if a.field != b.field {
			return false
		}
		// A nil owner binds to the root type; treat it as compatible with any
		// explicit owner since the root type is unknown statically.
		return a.owner == nil || b.owner == nil || a.owner == b.owner

	case a.v == variantType && b.v == variantType:
		return a.target == b.target

	case a.v == variantRoot && b.v == variantRoot:
		return true

	default:
		return false
	}
}
