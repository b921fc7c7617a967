package fabrica

import "errors"

// Sentinel errors returned by the engine. All fatal errors are wrapped with
// the active seed before they reach the caller, so branch with errors.Is.
var (
	// ErrUnresolvableType indicates a position whose type the engine cannot
	// produce a value for: an interface with no subtype customization and no
	// registered generator.
	ErrUnresolvableType = errors.New("fabrica: unresolvable type")

	// ErrGenerationExhausted indicates a unique or filter customization kept
	// rejecting generated values until the retry budget ran out.
	ErrGenerationExhausted = errors.New("fabrica: generation retry budget exhausted")

	// ErrIncompatibleValue indicates a customization supplied a value (or
	// subtype) that cannot be assigned or converted to the target position.
	ErrIncompatibleValue = errors.New("fabrica: incompatible value for target")

	// ErrEmptyAxis indicates a cartesian product axis declared no values.
	ErrEmptyAxis = errors.New("fabrica: cartesian product axis has no values")

	// ErrNoSourceMatch indicates an assignment's source selector matched no
	// position in the generated object graph.
	ErrNoSourceMatch = errors.New("fabrica: assignment source matched no position")
)
