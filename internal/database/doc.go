// Package database keeps a history of crawl runs in SQLite.
//
// Each run stores its summary and the library rows it produced, so earlier
// runs can be listed and compared with the history command. The history is
// an audit trail; crawls never read it back to skip work.
//
// SQLite is accessed through modernc.org/sqlite, which needs no cgo. The
// database is a single file, rbpscraper.db, in the XDG data directory.
package database
