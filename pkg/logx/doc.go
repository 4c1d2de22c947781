// Package logx is a small structured-logging wrapper around zerolog.
//
// It trims pewbot's original logx (which also fanned log lines out to a
// Telegram chat) down to what a library and a small daemon need: a console
// sink, optional file sink, and a rate-limited Warn helper for repeated
// warnings that would otherwise flood the log once per tick.
package logx
