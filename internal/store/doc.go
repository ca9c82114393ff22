// Package store persists FDL document snapshots in SQLite. A snapshot keeps
// the source text, optionally zstd-compressed, along with whether it parsed
// and a summary of the resulting forest.
package store
