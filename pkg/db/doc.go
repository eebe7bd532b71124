// Package db provides PostgreSQL utilities built on [github.com/jackc/pgx/v5/pgxpool].
//
// # Connection
//
// [Connect] opens a bounded pool and retries transient startup failures:
//
//	pool, err := db.Connect(ctx, cfg.Database)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// The pool never holds more than Config.MaxOpenConns connections. Callers that
// find the pool exhausted wait for a release or for their context to end.
//
// # Migrations
//
// [Migrate] runs embedded goose migrations and is safe to call on every start:
//
//	//go:embed *.sql
//	var migrations embed.FS
//
//	err := db.Migrate(ctx, pool, migrations, "schema_migrations", logger)
//
// # Errors
//
//   - [ErrFailedToParseDBConfig] - Invalid connection string format
//   - [ErrFailedToOpenDBConnection] - Connection failed after all retries
//   - [ErrHealthcheckFailed] - Database ping failed
//   - [ErrSetDialect] - Migration dialect configuration error
//   - [ErrApplyMigrations] - Migration execution failed
//
// [IsUniqueViolation] classifies driver errors caused by a UNIQUE constraint.
package db
