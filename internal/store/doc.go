// Package store defines the persistence contracts for cards, their
// scheduling state and users. Implementations live under
// internal/platform: postgres for the server and sqlite for the local
// command line tool.
package store
