// Package sqlite implements the card and performance stores on an embedded
// SQLite file for the single-user command line tool.
//
// Times are stored as fixed-width UTC text so that string comparison in SQL
// orders them chronologically.
package sqlite
