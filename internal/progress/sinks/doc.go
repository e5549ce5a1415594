// Package sinks contains progress.Sink implementations: a zap-backed log
// sink for development and a Prometheus sink exporting run/fetch metrics.
package sinks
