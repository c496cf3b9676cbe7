// Package postprocessors provides text processing applied to rendered posts
// before they are embedded. The chunker subpackage splits rendered posts into
// overlapping retrieval chunks.
package postprocessors
