// Package verify checks an opaque byte slice against a table's schema
// shape before any zero-copy reader is allowed to touch it: every vtable
// slot, every string and vector, every union discriminant is walked and
// bounds-checked first. It never panics and never reads out of bounds,
// no matter what bytes it is given — at worst it returns an Error.
package verify
