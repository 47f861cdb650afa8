// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Queries are written to run unchanged on PostgreSQL in production and on
// SQLite in unit tests: case-insensitive matching uses LOWER(...) LIKE,
// and aggregation is left to the stats package.
package gorm
