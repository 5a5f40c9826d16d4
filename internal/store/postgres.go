package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_cached":  `SELECT payload FROM lead_cache WHERE key = $1 AND cached_at > $2`,
	"put_cached":  `INSERT INTO lead_cache (key, url, payload, cached_at) VALUES ($1, $2, $3, $4) ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, cached_at = EXCLUDED.cached_at`,
	"upsert_lead": `INSERT INTO leads (website, data, industry, lead_score, scraped_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (website) DO UPDATE SET data = EXCLUDED.data, industry = EXCLUDED.industry, lead_score = EXCLUDED.lead_score, scraped_at = EXCLUDED.scraped_at, updated_at = EXCLUDED.updated_at`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS lead_cache (
	key       TEXT PRIMARY KEY,
	url       TEXT NOT NULL,
	payload   JSONB NOT NULL,
	cached_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	website    TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	industry   TEXT,
	lead_score INTEGER NOT NULL DEFAULT 0,
	scraped_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lead_cache_cached_at ON lead_cache(cached_at);
CREATE INDEX IF NOT EXISTS idx_leads_industry ON leads(industry);
CREATE INDEX IF NOT EXISTS idx_leads_lead_score ON leads(lead_score);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetCached(ctx context.Context, url string, maxAge time.Duration) (*model.Lead, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	row := s.pool.QueryRow(ctx,
		`SELECT payload FROM lead_cache WHERE key = $1 AND cached_at > $2`,
		CacheKey(url), cutoff,
	)

	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get cached")
	}

	var env cacheEnvelope
	if err := json.Unmarshal(payload, &env); err != nil || env.Version != cacheVersion {
		zap.L().Debug("discarding unreadable cache entry", zap.String("url", url))
		return nil, nil
	}
	return &env.Data, nil
}

func (s *PostgresStore) PutCached(ctx context.Context, url string, lead model.Lead) error {
	payload, err := json.Marshal(cacheEnvelope{Version: cacheVersion, Data: lead})
	if err != nil {
		return eris.Wrap(err, "postgres: marshal cache payload")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO lead_cache (key, url, payload, cached_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, cached_at = EXCLUDED.cached_at`,
		CacheKey(url), url, payload, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: put cached")
}

func (s *PostgresStore) DeleteExpiredCache(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM lead_cache WHERE cached_at <= $1`, cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired cache")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) UpsertLead(ctx context.Context, lead model.Lead) error {
	if lead.Website == "" {
		return eris.New("postgres: lead has no website")
	}

	data, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lead")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (website, data, industry, lead_score, scraped_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (website) DO UPDATE SET
			data = EXCLUDED.data,
			industry = EXCLUDED.industry,
			lead_score = EXCLUDED.lead_score,
			scraped_at = EXCLUDED.scraped_at,
			updated_at = EXCLUDED.updated_at`,
		lead.Website, data, lead.Industry, lead.LeadScore, lead.ScrapedAt.UTC(), time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert lead %s", lead.Website)
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT data FROM leads WHERE 1=1`
	var args []any

	if filter.Website != "" {
		args = append(args, filter.Website)
		query += ` AND website = $` + strconv.Itoa(len(args))
	}
	if filter.Industry != "" {
		args = append(args, filter.Industry)
		query += ` AND lower(industry) = lower($` + strconv.Itoa(len(args)) + `)`
	}
	if filter.MinScore > 0 {
		args = append(args, filter.MinScore)
		query += ` AND lead_score >= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY lead_score DESC, website`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		var lead model.Lead
		if err := json.Unmarshal(data, &lead); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal lead")
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}
