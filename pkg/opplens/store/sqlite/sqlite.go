package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/contentpeak/opplens/pkg/opplens/classify"
	"github.com/contentpeak/opplens/pkg/opplens/idea"
	"github.com/contentpeak/opplens/pkg/opplens/internalerr"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
	"github.com/contentpeak/opplens/pkg/opplens/store"
)

// Keyword roles inside an idea.
const (
	rolePrimary   = "primary"
	roleSecondary = "secondary"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	source TEXT,
	rows_total INTEGER NOT NULL DEFAULT 0,
	rows_kept INTEGER NOT NULL DEFAULT 0,
	rows_dropped INTEGER NOT NULL DEFAULT 0,
	total INTEGER NOT NULL DEFAULT 0,
	high INTEGER NOT NULL DEFAULT 0,
	medium INTEGER NOT NULL DEFAULT 0,
	low INTEGER NOT NULL DEFAULT 0,
	quick_wins INTEGER NOT NULL DEFAULT 0,
	timed_out INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_keywords (
	run_id TEXT NOT NULL,
	pos INTEGER NOT NULL,
	text TEXT NOT NULL,
	search_volume INTEGER NOT NULL,
	difficulty REAL NOT NULL,
	cpc REAL NOT NULL,
	raw_intents TEXT,
	intent TEXT NOT NULL,
	opportunity REAL NOT NULL,
	category TEXT NOT NULL,
	quick_win INTEGER NOT NULL,
	PRIMARY KEY(run_id, pos),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS run_ideas (
	run_id TEXT NOT NULL,
	id TEXT NOT NULL,
	pos INTEGER NOT NULL,
	title TEXT,
	format TEXT,
	seo_score REAL NOT NULL,
	traffic_score REAL NOT NULL,
	total_volume INTEGER NOT NULL,
	avg_difficulty REAL NOT NULL,
	avg_cpc REAL NOT NULL,
	tips TEXT,
	outline TEXT,
	PRIMARY KEY(run_id, id),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS idea_keywords (
	run_id TEXT NOT NULL,
	idea_id TEXT NOT NULL,
	role TEXT NOT NULL,
	pos INTEGER NOT NULL,
	text TEXT NOT NULL,
	search_volume INTEGER NOT NULL,
	difficulty REAL NOT NULL,
	cpc REAL NOT NULL,
	raw_intents TEXT,
	intent TEXT NOT NULL,
	opportunity REAL NOT NULL,
	category TEXT NOT NULL,
	quick_win INTEGER NOT NULL,
	PRIMARY KEY(run_id, idea_id, role, pos),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run and all of its keywords and ideas
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return errors.New("sqlite: run id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO runs (id, created_at, source, rows_total, rows_kept, rows_dropped, total, high, medium, low, quick_wins, timed_out)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	source=excluded.source,
	rows_total=excluded.rows_total,
	rows_kept=excluded.rows_kept,
	rows_dropped=excluded.rows_dropped,
	total=excluded.total,
	high=excluded.high,
	medium=excluded.medium,
	low=excluded.low,
	quick_wins=excluded.quick_wins,
	timed_out=excluded.timed_out;
`

	if _, err := tx.ExecContext(
		ctx,
		stmt,
		r.ID,
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.Source,
		r.RowsTotal,
		r.RowsKept,
		r.RowsDropped,
		r.Summary.Total,
		r.Summary.High,
		r.Summary.Medium,
		r.Summary.Low,
		r.Summary.QuickWins,
		boolToInt(r.TimedOut),
	); err != nil {
		return err
	}

	if err := replaceRunKeywords(ctx, tx, r.ID, r.Keywords); err != nil {
		return err
	}
	if err := replaceRunIdeas(ctx, tx, r.ID, r.Ideas); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceRunKeywords(ctx context.Context, tx *sql.Tx, runID string, keywords []keyword.Keyword) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_keywords WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(keywords) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO run_keywords (run_id, pos, text, search_volume, difficulty, cpc, raw_intents, intent, opportunity, category, quick_win)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, k := range keywords {
		if _, err := stmt.ExecContext(
			ctx,
			runID,
			i,
			k.Text,
			k.SearchVolume,
			k.Difficulty,
			k.CPC,
			k.RawIntents,
			string(k.Intent),
			k.OpportunityScore,
			string(k.Category),
			boolToInt(k.QuickWin),
		); err != nil {
			return err
		}
	}
	return nil
}

func replaceRunIdeas(ctx context.Context, tx *sql.Tx, runID string, ideas []idea.ContentIdea) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM idea_keywords WHERE run_id=?`, runID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_ideas WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(ideas) == 0 {
		return nil
	}

	ideaStmt, err := tx.PrepareContext(ctx, `
INSERT INTO run_ideas (run_id, id, pos, title, format, seo_score, traffic_score, total_volume, avg_difficulty, avg_cpc, tips, outline)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ideaStmt.Close()

	memberStmt, err := tx.PrepareContext(ctx, `
INSERT INTO idea_keywords (run_id, idea_id, role, pos, text, search_volume, difficulty, cpc, raw_intents, intent, opportunity, category, quick_win)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer memberStmt.Close()

	for i, it := range ideas {
		tipsJSON, err := json.Marshal(it.Tips)
		if err != nil {
			return err
		}
		if _, err := ideaStmt.ExecContext(
			ctx,
			runID,
			it.ID,
			i,
			it.Title,
			string(it.Format),
			it.SEOScore,
			it.TrafficScore,
			it.TotalSearchVolume,
			it.AvgDifficulty,
			it.AvgCPC,
			string(tipsJSON),
			it.Outline,
		); err != nil {
			return err
		}
		if err := insertIdeaKeywords(ctx, memberStmt, runID, it.ID, rolePrimary, it.PrimaryKeywords); err != nil {
			return err
		}
		if err := insertIdeaKeywords(ctx, memberStmt, runID, it.ID, roleSecondary, it.SecondaryKeywords); err != nil {
			return err
		}
	}
	return nil
}

func insertIdeaKeywords(ctx context.Context, stmt *sql.Stmt, runID, ideaID, role string, keywords []keyword.Keyword) error {
	for i, k := range keywords {
		if _, err := stmt.ExecContext(
			ctx,
			runID,
			ideaID,
			role,
			i,
			k.Text,
			k.SearchVolume,
			k.Difficulty,
			k.CPC,
			k.RawIntents,
			string(k.Intent),
			k.OpportunityScore,
			string(k.Category),
			boolToInt(k.QuickWin),
		); err != nil {
			return err
		}
	}
	return nil
}

// GetRun retrieves a run with its keywords and ideas
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	var (
		r        store.Run
		created  string
		timedOut int
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, created_at, source, rows_total, rows_kept, rows_dropped, total, high, medium, low, quick_wins, timed_out
FROM runs
WHERE id = ?;
`, id).Scan(
		&r.ID,
		&created,
		&r.Source,
		&r.RowsTotal,
		&r.RowsKept,
		&r.RowsDropped,
		&r.Summary.Total,
		&r.Summary.High,
		&r.Summary.Medium,
		&r.Summary.Low,
		&r.Summary.QuickWins,
		&timedOut,
	)
	if err == sql.ErrNoRows {
		return store.Run{}, fmt.Errorf("%w: run %s", internalerr.ErrNotFound, id)
	}
	if err != nil {
		return store.Run{}, err
	}
	r.TimedOut = timedOut != 0

	if created != "" {
		if parsed, perr := time.Parse(time.RFC3339, created); perr == nil {
			r.CreatedAt = parsed
		}
	}

	r.Keywords, err = s.loadRunKeywords(ctx, id)
	if err != nil {
		return store.Run{}, err
	}
	r.Ideas, err = s.loadRunIdeas(ctx, id)
	if err != nil {
		return store.Run{}, err
	}

	return r, nil
}

// ListRuns returns stored runs, newest first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunInfo, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.created_at, r.source, r.timed_out,
	(SELECT COUNT(*) FROM run_keywords k WHERE k.run_id = r.id),
	(SELECT COUNT(*) FROM run_ideas i WHERE i.run_id = r.id)
FROM runs r
ORDER BY r.created_at DESC, r.id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []store.RunInfo
	for rows.Next() {
		var (
			info     store.RunInfo
			created  string
			timedOut int
		)
		if err := rows.Scan(&info.ID, &created, &info.Source, &timedOut, &info.Keywords, &info.Ideas); err != nil {
			return nil, err
		}
		if created != "" {
			if parsed, perr := time.Parse(time.RFC3339, created); perr == nil {
				info.CreatedAt = parsed
			}
		}
		info.TimedOut = timedOut != 0
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteRun removes a run; keywords and ideas cascade
func (s *sqliteStore) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id=?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: run %s", internalerr.ErrNotFound, id)
	}
	return nil
}

func (s *sqliteStore) loadRunKeywords(ctx context.Context, runID string) ([]keyword.Keyword, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT text, search_volume, difficulty, cpc, raw_intents, intent, opportunity, category, quick_win
FROM run_keywords
WHERE run_id = ?
ORDER BY pos;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []keyword.Keyword
	for rows.Next() {
		k, err := scanKeyword(rows)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

func (s *sqliteStore) loadRunIdeas(ctx context.Context, runID string) ([]idea.ContentIdea, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, format, seo_score, traffic_score, total_volume, avg_difficulty, avg_cpc, tips, outline
FROM run_ideas
WHERE run_id = ?
ORDER BY pos;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ideas []idea.ContentIdea
	for rows.Next() {
		var (
			it       idea.ContentIdea
			format   string
			tipsJSON string
		)
		if err := rows.Scan(
			&it.ID,
			&it.Title,
			&format,
			&it.SEOScore,
			&it.TrafficScore,
			&it.TotalSearchVolume,
			&it.AvgDifficulty,
			&it.AvgCPC,
			&tipsJSON,
			&it.Outline,
		); err != nil {
			return nil, err
		}
		it.Format = classify.Format(format)
		if tipsJSON != "" {
			if err := json.Unmarshal([]byte(tipsJSON), &it.Tips); err != nil {
				return nil, err
			}
		}
		ideas = append(ideas, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range ideas {
		primary, err := s.loadIdeaKeywords(ctx, runID, ideas[i].ID, rolePrimary)
		if err != nil {
			return nil, err
		}
		secondary, err := s.loadIdeaKeywords(ctx, runID, ideas[i].ID, roleSecondary)
		if err != nil {
			return nil, err
		}
		ideas[i].PrimaryKeywords = primary
		ideas[i].SecondaryKeywords = secondary
	}
	return ideas, nil
}

func (s *sqliteStore) loadIdeaKeywords(ctx context.Context, runID, ideaID, role string) ([]keyword.Keyword, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT text, search_volume, difficulty, cpc, raw_intents, intent, opportunity, category, quick_win
FROM idea_keywords
WHERE run_id = ? AND idea_id = ? AND role = ?
ORDER BY pos;
`, runID, ideaID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []keyword.Keyword
	for rows.Next() {
		k, err := scanKeyword(rows)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

func scanKeyword(rows *sql.Rows) (keyword.Keyword, error) {
	var (
		k        keyword.Keyword
		intent   string
		category string
		quickWin int
	)
	if err := rows.Scan(
		&k.Text,
		&k.SearchVolume,
		&k.Difficulty,
		&k.CPC,
		&k.RawIntents,
		&intent,
		&k.OpportunityScore,
		&category,
		&quickWin,
	); err != nil {
		return keyword.Keyword{}, err
	}
	k.Intent = keyword.Intent(intent)
	k.Category = keyword.Category(category)
	k.QuickWin = quickWin != 0
	return k, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
