// Package database provides the SQLite archive of finished crawls.
//
// Each saved crawl stores its parameters, every URL record with its visited
// flag, and every discovery edge in call order, so a result can be listed,
// reloaded and rendered again later. The archive is for inspection only;
// a crawl is never resumed from it.
//
// SQLite is used through modernc.org/sqlite (CGO-free) with WAL mode and
// a single connection. Every crawl carries a SHA3-256 digest of its
// canonical snapshot so identical results compare equal across runs.
package database
