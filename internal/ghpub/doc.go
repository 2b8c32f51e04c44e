// Package ghpub posts scribe run summaries back to GitHub as commit comments
// on the reviewed SHA. Failures here are advisory and never fail the run.
package ghpub
