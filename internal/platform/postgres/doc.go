// Package postgres implements the store interfaces on PostgreSQL through
// the pgx database/sql driver. Schema changes live in the embedded
// migrations directory and are applied with Migrate.
package postgres
