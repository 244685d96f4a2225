// Package db provides PostgreSQL utilities built on
// [github.com/jackc/pgx/v5/pgxpool]: pooled connections with retry and
// exponential backoff during startup, goose migrations from an embedded
// filesystem, a health check compatible with pkg/health, a transaction
// helper, and a graceful shutdown hook.
//
//	cfg, _ := env.ParseAs[db.Config]()
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, migrationsFS, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
package db
