package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed event log repository.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, eventType string, account *string, payload []byte) error {
	query := `
		INSERT INTO garden_events (event_type, account, payload)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, eventType, account, payload)
	return err
}

func (r *postgresRepository) List(ctx context.Context, filter Filter) ([]Entry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, event_type, account, payload, created_at
		FROM garden_events
		WHERE 1=1`)

	args := []interface{}{}
	argNum := 1

	if filter.Account != nil {
		fmt.Fprintf(&queryBuilder, " AND account = $%d", argNum)
		args = append(args, *filter.Account)
		argNum++
	}
	if filter.EventType != nil {
		fmt.Fprintf(&queryBuilder, " AND event_type = $%d", argNum)
		args = append(args, *filter.EventType)
		argNum++
	}
	if filter.Since != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at >= $%d", argNum)
		args = append(args, *filter.Since)
		argNum++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		fmt.Fprintf(&queryBuilder, " LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *postgresRepository) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	query := `DELETE FROM garden_events WHERE created_at < $1`
	tag, err := r.db.Exec(ctx, query, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			entry      Entry
			rawPayload []byte
		)
		if err := rows.Scan(&entry.ID, &entry.EventType, &entry.Account, &rawPayload, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(rawPayload) > 0 {
			if err := json.Unmarshal(rawPayload, &entry.Payload); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
