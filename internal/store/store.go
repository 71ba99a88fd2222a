// Package store handles SQLite persistence of score history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/workmanship/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout keeps fractional seconds fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for score history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id TEXT PRIMARY KEY,
			layout TEXT NOT NULL,
			lesson TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			cps REAL NOT NULL,
			wpm REAL NOT NULL,
			hit_ratio REAL NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			hits INTEGER NOT NULL,
			misses INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_recorded_at ON scores(recorded_at);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_lesson ON scores(layout, lesson);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AppendScore records a completed lesson attempt and returns its id.
func (s *Store) AppendScore(ctx context.Context, entry model.ScoreEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, layout, lesson, recorded_at, cps, wpm, hit_ratio, elapsed_ms, hits, misses)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Layout,
		entry.Lesson,
		entry.RecordedAt.UTC().Format(timeLayout),
		entry.CPS,
		entry.WPM,
		entry.HitRatio,
		entry.ElapsedMs,
		entry.Hits,
		entry.Misses,
	)
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

func filterClauses(filter model.ScoreFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Layout != "" {
		clauses = append(clauses, "layout = ?")
		args = append(args, filter.Layout)
	}
	if filter.Lesson != "" {
		clauses = append(clauses, "lesson = ?")
		args = append(args, filter.Lesson)
	}
	if filter.Since != nil {
		clauses = append(clauses, "recorded_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	return strings.Join(clauses, " AND "), args
}

// ListScores returns scores matching the filter, oldest first.
func (s *Store) ListScores(ctx context.Context, filter model.ScoreFilter) ([]model.ScoreEntry, error) {
	where, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT id, layout, lesson, recorded_at, cps, wpm, hit_ratio, elapsed_ms, hits, misses
		FROM scores
		WHERE %s
		ORDER BY recorded_at ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var scores []model.ScoreEntry
	for rows.Next() {
		var entry model.ScoreEntry
		var recordedAt string
		if err := rows.Scan(&entry.ID, &entry.Layout, &entry.Lesson, &recordedAt, &entry.CPS, &entry.WPM,
			&entry.HitRatio, &entry.ElapsedMs, &entry.Hits, &entry.Misses); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, err
		}
		entry.RecordedAt = parsed
		scores = append(scores, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// LessonSummaries aggregates scores per lesson, ordered by layout and lesson.
func (s *Store) LessonSummaries(ctx context.Context, filter model.ScoreFilter) ([]model.LessonAggregate, error) {
	where, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT layout, lesson, COUNT(*) AS attempts, MAX(wpm) AS best_wpm,
		AVG(wpm) AS avg_wpm, AVG(hit_ratio) AS avg_hit_ratio, MAX(recorded_at) AS last_at
		FROM scores
		WHERE %s
		GROUP BY layout, lesson
		ORDER BY layout, lesson`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LessonAggregate
	for rows.Next() {
		var agg model.LessonAggregate
		var lastAt string
		if err := rows.Scan(&agg.Layout, &agg.Lesson, &agg.Attempts, &agg.BestWPM, &agg.AvgWPM, &agg.AvgHitRatio, &lastAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, lastAt)
		if err != nil {
			return nil, err
		}
		agg.LastAt = parsed
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
