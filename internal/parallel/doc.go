// Package parallel provides the worker pool that large primitives are
// sliced across.
//
// WorkerPool keeps one queue per worker and lets idle workers steal from
// the others. ParallelRange is the fork-join entry point used by the
// rasterizer: it splits a range of rows or columns into at most one slice
// per worker and returns once all of them are drawn.
package parallel
