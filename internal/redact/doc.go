// Package redact strips likely secrets from source file content before it is
// sent to a review provider.
package redact
