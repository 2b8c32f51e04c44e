// Package pipeline orchestrates one scribe run: filter the change set, fan
// out file reviews over a bounded worker pool, and persist one report per
// file.
//
// Per-file review and write failures are isolated: they are logged, recorded
// in the [Summary], and never abort the batch. workers=1 preserves strictly
// sequential processing.
package pipeline
