// Package appender drives the timed batch-append loop: one generated batch
// per interval, written to every configured sink, guarded by an advisory
// lock so only one process grows a dataset at a time.
package appender
