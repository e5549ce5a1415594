// Package signals derives structured insight from parsed markup. Each
// extractor is a pure function over a read-only markup.Document; absence of a
// signal is always an empty collection or a documented sentinel, never an
// error, so the extractors can run concurrently and never abort a run.
package signals
