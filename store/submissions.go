package store

import (
	"context"
	"fmt"
	"time"

	"github.com/formforge/quickform/model"
)

// CreateSubmission inserts the submission row and bumps the owning form's
// denormalized counter in one transaction. The increment is a single UPDATE
// so concurrent submits never lose updates, and neither effect is ever
// visible without the other.
func (s *Store) CreateSubmission(ctx context.Context, formID int, answers string, at time.Time) (model.Submission, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Submission{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sub := model.Submission{FormID: formID, CreatedAt: at}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO submission (form_id, answers, created_at) VALUES (?, ?, ?)
		RETURNING id`,
		formID,
		answers,
		at,
	).Scan(&sub.ID)
	if err != nil {
		return model.Submission{}, fmt.Errorf("insert submission: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE form
		SET submissions_count = submissions_count + 1
		WHERE id = ?`,
		formID,
	)
	if err != nil {
		return model.Submission{}, fmt.Errorf("increment submissions count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Submission{}, fmt.Errorf("increment submissions count: %w", err)
	}
	if n < 1 {
		return model.Submission{}, ErrNotFound
	}

	if err = tx.Commit(); err != nil {
		return model.Submission{}, fmt.Errorf("commit submission: %w", err)
	}
	return sub, nil
}

// CountSubmissionRows counts persisted submission rows for one form,
// bypassing the denormalized counter.
func (s *Store) CountSubmissionRows(ctx context.Context, formID int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM submission WHERE form_id = ?`,
		formID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

// SubmissionTimes returns creation timestamps of an owner's submissions in
// [from, to), oldest first.
func (s *Store) SubmissionTimes(ctx context.Context, ownerID string, from, to time.Time) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.created_at
		FROM submission s
		INNER JOIN form f ON (f.id = s.form_id)
		WHERE f.owner_id = ?
			AND s.created_at >= ?
			AND s.created_at < ?
		ORDER BY s.created_at`,
		ownerID,
		from,
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("submission times: %w", err)
	}
	defer rows.Close()

	times := []time.Time{}
	for rows.Next() {
		var t time.Time
		if err = rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan submission time: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// CountSubmissions counts an owner's submissions created in [from, to).
func (s *Store) CountSubmissions(ctx context.Context, ownerID string, from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM submission s
		INNER JOIN form f ON (f.id = s.form_id)
		WHERE f.owner_id = ?
			AND s.created_at >= ?
			AND s.created_at < ?`,
		ownerID,
		from,
		to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

// SubmissionActivity is one submission joined with its parent form, as needed
// by the recent-activity feed.
type SubmissionActivity struct {
	ID          int
	CreatedAt   time.Time
	FormUUID    string
	FormContent string
}

// RecentSubmissions returns the owner's latest submissions, newest first.
func (s *Store) RecentSubmissions(ctx context.Context, ownerID string, limit int) ([]SubmissionActivity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.created_at, f.uuid, f.content
		FROM submission s
		INNER JOIN form f ON (f.id = s.form_id)
		WHERE f.owner_id = ?
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT ?`,
		ownerID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent submissions: %w", err)
	}
	defer rows.Close()

	activity := []SubmissionActivity{}
	for rows.Next() {
		a := SubmissionActivity{}
		if err = rows.Scan(&a.ID, &a.CreatedAt, &a.FormUUID, &a.FormContent); err != nil {
			return nil, fmt.Errorf("scan recent submission: %w", err)
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}
