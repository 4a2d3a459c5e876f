package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/opportunity"
)

const DefaultTable = "opportunities"

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore reads one opportunity per row: an id column and a jsonb data
// column holding the opportunity document.
type PostgresStore struct {
	db     querier
	table  string
	logger *zap.Logger
}

// NewPostgresPool creates and verifies a pgxpool connection pool.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

func NewPostgresStore(db querier, table string, logger *zap.Logger) *PostgresStore {
	if strings.TrimSpace(table) == "" {
		table = DefaultTable
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, table: table, logger: logger}
}

func (s *PostgresStore) query() string {
	table := pgx.Identifier(strings.Split(s.table, ".")).Sanitize()
	return fmt.Sprintf("SELECT id, data FROM %s ORDER BY id", table)
}

func (s *PostgresStore) ListOpportunities(ctx context.Context) ([]*opportunity.Opportunity, error) {
	rows, err := s.db.Query(ctx, s.query())
	if err != nil {
		return nil, unavailable(fmt.Errorf("query %s: %w", s.table, err))
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, unavailable(fmt.Errorf("scan: %w", err))
		}

		var item map[string]any
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, unavailable(fmt.Errorf("row %s: %w", id, err))
		}
		if item == nil {
			item = map[string]any{}
		}
		item["id"] = id
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}

	s.logger.Debug("loaded catalog from postgres", zap.String("table", s.table), zap.Int("rows", len(items)))

	opportunities, err := opportunity.Decode(items)
	if err != nil {
		return nil, unavailable(err)
	}

	return opportunities, nil
}
