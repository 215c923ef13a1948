// Package task provides a bounded in-memory task queue and a worker pool
// that drains it. The card store uses it to run durable writes off the
// caller's goroutine.
package task
