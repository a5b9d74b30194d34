package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage: Postgres реализация storage.Storage
type PostgresStorage struct {
	pool *pgxpool.Pool

	*PostgresSamplesStorage
	*PostgresReportsStorage
}

// New подключается к базе и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:                   pool,
		PostgresSamplesStorage: NewSamplesStorage(pool),
		PostgresReportsStorage: NewReportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	values, err := p.getMany(ctx, []string{key})
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (p *PostgresStorage) getMany(ctx context.Context, keys []string) (map[string]string, error) {
	query := `
		SELECT key, value
		FROM app_settings
		WHERE key = ANY($1)
	`

	rows, err := p.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]string, len(keys))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, rows.Err()
}

// SetMany пишет все пары в одной транзакции
func (p *PostgresStorage) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	for k, v := range values {
		if _, err := tx.Exec(ctx, query, k, v); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (p *PostgresStorage) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM app_settings WHERE key = $1`, key)
	return err
}

// Close закрывает пул соединений
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
