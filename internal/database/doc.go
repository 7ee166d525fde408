// Package database keeps newsurl's state between runs in a SQLite file.
//
// Two tables are maintained:
//   - seen_articles: every article URL written for a site, used by the
//     "registry" dedup policy to skip links found by earlier runs
//   - runs: one row per site per run with counts and errors, shown by
//     the history command
//
// The driver is modernc.org/sqlite, which is pure Go and needs no cgo.
package database
