// Package fabrica is your in-memory factory for realistic, reproducible,
// customizable test fixtures — point it at any type and get back a fully
// populated instance graph.
//
// 🚀 What is fabrica?
//
//	A deterministic test-object generation engine that brings together:
//		• One-call creation: Create[T]() fills any struct, collection or scalar
//		• Selectors: target positions by field, type, predicate, depth or scope
//		• Customizations: set, generate, ignore, subtype, blank, nullable,
//		  unique, filter, onComplete — resolved by specificity precedence
//		• Assignments: derive fields from other generated fields, with
//		  conditional branches, evaluated in dependency order
//		• Models: freeze a configuration as an immutable, layerable template
//		• Feeds: bind rows of external tabular data onto generated objects
//		• Seeds: every run reports the seed that produced it, so any failure
//		  replays bit-for-bit
//
// ✨ Why choose fabrica?
//
//   - Beginner-friendly – one entry point, functional options, clear naming
//   - Reproducible – no wall clock, no globals; same seed ⇒ same objects
//   - Cycle-safe – recursive and self-referential types stop at a depth you
//     control instead of erroring
//   - Extensible – plug in your own generators, metadata providers and
//     constraint sources
//
// Under the hood, the engine is organized into focused subpackages:
//
//	selectkit/ — selector matching, traversal contexts, precedence rules
//	schema/    — type metadata reader with a concurrent node cache
//	genval/    — default and override value generators
//	assign/    — assignment declarations and dependency ordering
//	feed/      — external tabular data binding
//	settings/  — layered run configuration
//	randsrc/   — seeded deterministic randomness
//
// A taste:
//
//	person, err := fabrica.Create[Person](
//	    fabrica.Set(selectkit.Field("LastName"), "Simpson"),
//	    fabrica.Generate(selectkit.FieldOf[Phone]("Number"), genval.String().Digits().Length(7)),
//	    fabrica.WithSeed(42),
//	)
package fabrica
