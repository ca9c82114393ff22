// Package watch keeps parsed views of FDL documents current. A Watcher
// parses each file when it starts and again, after a debounce period,
// whenever the file is written, created or replaced. Every parse runs the
// whole pipeline from source text; results are delivered on a channel so
// the viewer and the check command can consume them from their own loops.
package watch
