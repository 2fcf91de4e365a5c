// Package dbpf reads the index tables of packed-resource container files.
//
// The container format bundles many named resources into one file, each
// identified by a (type, group, instance) key. The index table layout is not
// consistently standardized across the tools that produce these files, so the
// reader recovers it heuristically rather than implementing any official
// specification.
//
// # Reading strategy
//
//  1. Verify the 4-byte magic in a fixed 96-byte header.
//  2. Resolve the index table from the primary header layout, retrying a
//     legacy layout when the declared range falls outside the file.
//  3. Try a set of candidate record widths against the raw table and keep the
//     width yielding the most non-zero keys.
//  4. When nothing was recovered, optionally scan the trailing bytes of the
//     file for plausible 24-byte index records (tail fallback).
//
// The reader is deliberately infallible: damaged or foreign files simply
// contribute zero keys. Payload contents are never interpreted.
package dbpf
