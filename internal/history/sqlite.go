package history

import (
	"database/sql"
	"fmt"

	"gits-go/internal/history/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteLog implements Log using SQLite.
type SQLiteLog struct {
	db *sql.DB
}

var _ Log = (*SQLiteLog)(nil)

// NewSQLiteLog opens (and migrates) the submission log at path.
// path can be a file path or ":memory:" for an in-memory log.
func NewSQLiteLog(path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := migrations.Apply(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &SQLiteLog{db: db}, nil
}

func (l *SQLiteLog) Record(sub *Submission) error {
	res, err := l.db.Exec(
		`INSERT INTO submissions (job_id, schedule_time, repo_url, commit_message, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sub.JobID, sub.ScheduleTime, sub.RepoURL, sub.CommitMessage, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording submission: %w", err)
	}
	sub.ID, _ = res.LastInsertId()
	return nil
}

func (l *SQLiteLog) List(limit int) ([]*Submission, error) {
	rows, err := l.db.Query(
		`SELECT id, job_id, schedule_time, repo_url, commit_message, created_at
		 FROM submissions ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.JobID, &s.ScheduleTime, &s.RepoURL, &s.CommitMessage, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return subs, nil
}

func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
