package psql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	databaseerrors "restoapi/internal/database"
	"restoapi/pkg/lib/logger/sl"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Storage keeps per-client key/value pairs, the server-side stand-in for
// browser local storage.
type Storage struct {
	log *slog.Logger
	db  *sqlx.DB
}

// New connects with driverName ("postgres" for lib/pq, "pgx" for pgx) and
// applies the embedded migrations.
func New(log *slog.Logger, driverName, connStr string) (*Storage, error) {
	const op = "database.psql.New"

	db, err := sqlx.Connect(driverName, connStr)
	if err != nil {
		log.With("op", op).Error("Error connect to database", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		log.With("op", op).Error("Error applying migrations", sl.Err(err))
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		log: log,
		db:  db,
	}, nil
}

func NewWithParams(log *slog.Logger, db *sqlx.DB) *Storage {
	return &Storage{
		log: log,
		db:  db,
	}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) GetItem(ctx context.Context, clientId, key string) ([]byte, error) {
	const op = "database.psql.GetItem"
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var value string
	err := s.db.GetContext(ctx, &value, `
		SELECT value FROM client_storage
		WHERE client_id=$1 AND key=$2;
	`, clientId, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
		}

		log.Error("Failed to read item", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return []byte(value), nil
}

func (s *Storage) SetItem(ctx context.Context, clientId, key string, value []byte) error {
	const op = "database.psql.SetItem"
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO client_storage (client_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (client_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now();
	`, clientId, key, string(value)); err != nil {
		log.Error("Failed to write item", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) RemoveItem(ctx context.Context, clientId, key string) error {
	const op = "database.psql.RemoveItem"
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM client_storage
		WHERE client_id=$1 AND key=$2;
	`, clientId, key); err != nil {
		log.Error("Failed to delete item", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
