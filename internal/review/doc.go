// Package review turns one source file into one markdown review report.
//
// It assembles the three-perspective prompt (security, bugs, optimization),
// validates input before anything touches the network, redacts secrets, and
// calls the configured provider. The resulting [Report] is free-form markdown
// keyed by the source path.
package review
