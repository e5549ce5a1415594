// Package relay chooses content-relay endpoints for a target URL and runs
// the sequential fetch chain over them: per-relay timeout races, envelope
// normalization, inter-attempt delays, and per-relay failure bookkeeping.
package relay
