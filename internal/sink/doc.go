// Package sink persists synthesized records to dataset files.
//
// Each Sink owns one file in one format (CSV, NDJSON, SQLite, or XLSX) and
// appends whole batches, so a dataset keeps growing across runs instead of
// being rewritten. ForFormats builds the sink set for a configuration; the
// appender fans each batch out to every sink.
//
// Sinks do not log and do not lock. Single-writer discipline comes from the
// appender's dataset lock, and progress reporting stays with the caller.
package sink
