// Package sqlite provides a persistent lexical ranker on SQLite FTS5.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/lexical"
	_ "modernc.org/sqlite"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("ranker is closed")

const schema = `
CREATE VIRTUAL TABLE IF NOT EXISTS documents USING fts5(
	scope UNINDEXED,
	doc_id UNINDEXED,
	body,
	tokenize = 'unicode61'
);`

// Ranker is a lexical.Ranker and lexical.Indexer backed by an FTS5 table.
// Scores are the negated bm25() rank, so higher is better.
type Ranker struct {
	mu     sync.RWMutex // guards db against Close
	db     *sql.DB
	logger *slog.Logger
}

var (
	_ lexical.Ranker  = (*Ranker)(nil)
	_ lexical.Indexer = (*Ranker)(nil)
)

// Option configures a Ranker.
type Option func(*Ranker)

// WithLogger sets the logger. Nil selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "fts-ranker")
	}
}

// Open opens or creates the index at path. Use ":memory:" for a throwaway index.
func Open(path string, opts ...Option) (*Ranker, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// single writer; also keeps an in-memory database alive on one connection
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating fts schema: %w", err)
	}

	r := &Ranker{db: db, logger: slog.Default().With("component", "fts-ranker")}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close closes the database once running operations return.
func (r *Ranker) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// Put indexes text under id, replacing any previous text.
func (r *Ranker) Put(ctx context.Context, scope lexical.Scope, id core.ID, text string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return ErrClosed
	}
	if !scope.Valid() {
		return fmt.Errorf("%w: %s", lexical.ErrInvalidScope, scope)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE scope = ? AND doc_id = ?`, int(scope), int64(id)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (scope, doc_id, body) VALUES (?, ?, ?)`,
		int(scope), int64(id), strings.Join(lexical.Tokenize(text), " ")); err != nil {
		return err
	}
	return tx.Commit()
}

// Remove drops id from the scope.
func (r *Ranker) Remove(ctx context.Context, scope lexical.Scope, id core.ID) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return ErrClosed
	}
	if !scope.Valid() {
		return fmt.Errorf("%w: %s", lexical.ErrInvalidScope, scope)
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE scope = ? AND doc_id = ?`, int(scope), int64(id))
	return err
}

// Rank returns up to limit documents of scope matching any query term.
func (r *Ranker) Rank(ctx context.Context, scope lexical.Scope, query string, limit int) ([]lexical.Hit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return nil, ErrClosed
	}
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: %s", lexical.ErrInvalidScope, scope)
	}
	match := matchExpression(query)
	if match == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = -1 // no LIMIT in SQLite
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT doc_id, -bm25(documents) AS score
		FROM documents
		WHERE documents MATCH ? AND scope = ?
		ORDER BY score DESC, doc_id ASC
		LIMIT ?`, match, int(scope), limit)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	var hits []lexical.Hit
	for rows.Next() {
		var id int64
		var score float64
		if err := rows.Scan(&id, &score); err != nil {
			return nil, err
		}
		hits = append(hits, lexical.Hit{Id: core.ID(id), Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("fts ranked", "scope", scope, "hits", len(hits))
	return hits, nil
}

// matchExpression quotes every query term so FTS5 operators in user text are
// taken literally, and ORs them together.
func matchExpression(query string) string {
	terms := lexical.Tokenize(query)
	seen := make(map[string]bool, len(terms))
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " OR ")
}
