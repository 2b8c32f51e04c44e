// Package logger provides a thin leveled logging wrapper over zerolog with
// console and JSON output formats.
package logger
