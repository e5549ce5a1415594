// Package analysis defines the core types shared across the pipeline: the
// normalized analysis target, the raw and assembled result values, the
// capture artifact, and the stable error taxonomy surfaced to callers.
package analysis
