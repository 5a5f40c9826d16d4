package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS lead_cache (
	key       TEXT PRIMARY KEY,
	url       TEXT NOT NULL,
	payload   TEXT NOT NULL,
	cached_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	website    TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	industry   TEXT,
	lead_score INTEGER NOT NULL DEFAULT 0,
	scraped_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lead_cache_cached_at ON lead_cache(cached_at);
CREATE INDEX IF NOT EXISTS idx_leads_industry ON leads(industry);
CREATE INDEX IF NOT EXISTS idx_leads_lead_score ON leads(lead_score);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetCached returns the cached lead for url if one exists, is younger than
// maxAge, and carries the current payload version. Any other state,
// including a payload that fails to decode, is a miss.
func (s *SQLiteStore) GetCached(ctx context.Context, url string, maxAge time.Duration) (*model.Lead, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM lead_cache WHERE key = ? AND cached_at > ?`,
		CacheKey(url), cutoff,
	)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get cached")
	}

	var env cacheEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil || env.Version != cacheVersion {
		zap.L().Debug("discarding unreadable cache entry", zap.String("url", url))
		return nil, nil
	}
	return &env.Data, nil
}

func (s *SQLiteStore) PutCached(ctx context.Context, url string, lead model.Lead) error {
	payload, err := json.Marshal(cacheEnvelope{Version: cacheVersion, Data: lead})
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal cache payload")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lead_cache (key, url, payload, cached_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		CacheKey(url), url, string(payload), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: put cached")
}

func (s *SQLiteStore) DeleteExpiredCache(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM lead_cache WHERE cached_at <= ?`, cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired cache")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// UpsertLead inserts or replaces the stored lead keyed by website.
func (s *SQLiteStore) UpsertLead(ctx context.Context, lead model.Lead) error {
	if lead.Website == "" {
		return eris.New("sqlite: lead has no website")
	}

	data, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lead")
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (website, data, industry, lead_score, scraped_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(website) DO UPDATE SET
			data = excluded.data,
			industry = excluded.industry,
			lead_score = excluded.lead_score,
			scraped_at = excluded.scraped_at,
			updated_at = excluded.updated_at`,
		lead.Website, string(data), lead.Industry, lead.LeadScore, lead.ScrapedAt.UTC(), now,
	)
	return eris.Wrapf(err, "sqlite: upsert lead %s", lead.Website)
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT data FROM leads WHERE 1=1`
	var args []any

	if filter.Website != "" {
		query += ` AND website = ?`
		args = append(args, filter.Website)
	}
	if filter.Industry != "" {
		query += ` AND industry = ? COLLATE NOCASE`
		args = append(args, filter.Industry)
	}
	if filter.MinScore > 0 {
		query += ` AND lead_score >= ?`
		args = append(args, filter.MinScore)
	}
	query += ` ORDER BY lead_score DESC, website`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		var lead model.Lead
		if err := json.Unmarshal([]byte(data), &lead); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal lead")
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}
