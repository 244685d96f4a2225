// Package slug generates URL-safe slugs from arbitrary strings with
// Unicode normalization.
//
// Text is converted to web-friendly identifiers by folding diacritics to
// ASCII, replacing special characters with separators, and collapsing
// repeats:
//
//	slug.Make("Café & Restaurant")
//	// Output: "cafe-restaurant"
//
// Options cover length limits, custom separators, character stripping,
// string replacements, reserved names, and collision-resistant random
// suffixes:
//
//	slug.Make("Long Article Title",
//		slug.MaxLength(20),
//		slug.WithSuffix(6),
//	)
//	// Output: "long-article-x3k7f9"
//
// Unsupported character sets (Cyrillic, CJK) are replaced with separators.
package slug
