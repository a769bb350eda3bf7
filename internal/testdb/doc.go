//go:build integration

// Package testdb connects integration tests to a real PostgreSQL database.
//
// Each test runs inside a transaction that is rolled back when it returns,
// so tests never see each other's rows and need no cleanup:
//
//	func TestSomething(t *testing.T) {
//	    testdb.WithTx(t, testdb.Open(t), func(t *testing.T, tx *sql.Tx) {
//	        cards := postgres.NewPostgresCardStore(tx, nil)
//	        ...
//	    })
//	}
//
// Tests are skipped when no database URL is configured. The URL is read
// from DATABASE_URL, then REPEAT_TEST_DB_URL.
package testdb
