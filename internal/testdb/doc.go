// Package testdb provides utilities specifically for database testing.
//
// It starts a disposable PostgreSQL container through testcontainers-go,
// applies the embedded schema migrations, and offers WithTx so each test runs
// inside a transaction that is always rolled back. Setting TEST_DATABASE_URL
// points the helpers at an existing database instead of starting a container.
package testdb
