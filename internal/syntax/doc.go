// Package syntax turns canonical source text into a syntax tree.
//
// The Parser interface is the seam between the similarity engine and any
// concrete grammar: fingerprinting and scoring consume the tree as an
// opaque, deterministically serializable structure, so a grammar-backed
// parser can replace the built-in one without touching either.
//
// The built-in StructureParser is intentionally grammar-agnostic. It lexes
// the text into classified tokens and nests them by bracket structure,
// folding identifiers into a single class token so that renaming variables
// does not defeat detection.
package syntax
