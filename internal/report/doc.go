// Package report derives deterministic report paths from source paths and
// persists generated markdown reports, overwriting prior runs.
package report
