// Package syntax provides the language-agnostic syntax tree used by the
// incremental reparse engine.
//
// A Tree is an arena of nodes addressed by NodeID. Each node is either a
// leaf token carrying text or a composite whose text is the concatenation
// of its children. Element types are small integers allocated by a
// Registry, which also records per-type behavior flags (reparseable,
// whitespace, comment, lazy, template host, error).
//
// Composites cache their length and a composable text hash. Both are kept
// current by every mutation, so comparing two subtrees for textual equality
// starts with an O(1) check.
//
// Mutation of a live tree goes through a Surgeon. Parsers construct trees
// with a Builder.
package syntax
