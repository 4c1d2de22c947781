// Package history persists a Scheduler's task lifecycle events (activate,
// dispatch, timeout, remove) to SQLite, so operators can inspect what a
// long-running schedloopd process actually did after the fact.
//
// Grounded on pewbot/internal/storage's SQLite backend: same
// modernc.org/sqlite (cgo-free) driver, the same WAL/synchronous pragma
// pair, and an embedded migrations.sql applied on open.
package history
