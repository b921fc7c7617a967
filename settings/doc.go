// Package settings holds run-scoped configuration as layered key → typed
// value maps.
//
// Resolution walks layers from the most recently applied override down to
// the global defaults: call-site override > injected profile > default.
// Layering is copy-on-write — With returns a new *Settings referencing its
// parent, so a snapshot captured in a model can never be mutated by later
// overrides.
//
// Profiles may be loaded from YAML (FromYAML) for injected, environment-level
// overrides; values are coerced on read, so YAML's scalar typing quirks
// (e.g. "0.1" vs 0.1) do not leak into the engine.
package settings
