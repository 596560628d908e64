// Package pg connects to PostgreSQL with pgx/v5 and applies goose migrations.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	pool, err := pg.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, log); err != nil {
//		return err
//	}
//
// Error helpers such as IsDuplicateKeyError classify *pgconn.PgError values
// for the storage layer.
package pg
