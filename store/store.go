// Package store owns all SQL against the forms database. Handlers and the
// analytics aggregator go through a Store constructed once at startup.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/formforge/quickform/model"
)

// ErrNotFound covers both unknown uuids and forms owned by somebody else, so
// callers cannot tell the two apart.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateForm(ctx context.Context, ownerID, uuid, content string) (model.Form, error) {
	form := model.Form{
		OwnerID:   ownerID,
		UUID:      uuid,
		Content:   content,
		CreatedAt: time.Now(),
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO form (owner_id, uuid, content, published, submissions_count, created_at)
		VALUES (?, ?, ?, 0, 0, ?)
		RETURNING id`,
		ownerID,
		uuid,
		content,
		form.CreatedAt,
	).Scan(&form.ID)
	if err != nil {
		return model.Form{}, fmt.Errorf("insert form: %w", err)
	}
	return form, nil
}

func (s *Store) FormByUUID(ctx context.Context, uuid string) (model.Form, error) {
	return s.scanForm(s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, uuid, content, published, submissions_count, created_at
		FROM form
		WHERE uuid = ?`,
		uuid,
	))
}

func (s *Store) OwnerFormByUUID(ctx context.Context, ownerID, uuid string) (model.Form, error) {
	return s.scanForm(s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, uuid, content, published, submissions_count, created_at
		FROM form
		WHERE uuid = ?
			AND owner_id = ?`,
		uuid,
		ownerID,
	))
}

func (s *Store) scanForm(row *sql.Row) (model.Form, error) {
	f := model.Form{}
	err := row.Scan(&f.ID, &f.OwnerID, &f.UUID, &f.Content, &f.Published, &f.SubmissionsCount, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Form{}, ErrNotFound
	}
	if err != nil {
		return model.Form{}, fmt.Errorf("scan form: %w", err)
	}
	return f, nil
}

func (s *Store) ListForms(ctx context.Context, ownerID string) ([]model.Form, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, uuid, content, published, submissions_count, created_at
		FROM form
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		f := model.Form{}
		err = rows.Scan(&f.ID, &f.OwnerID, &f.UUID, &f.Content, &f.Published, &f.SubmissionsCount, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// UpdateFormContent replaces the content of an unpublished form wholesale.
// Published forms are immutable and report ErrPublished.
func (s *Store) UpdateFormContent(ctx context.Context, ownerID, uuid, content string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE form
		SET content = ?
		WHERE uuid = ?
			AND owner_id = ?
			AND published = 0`,
		content,
		uuid,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("update form: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update form: %w", err)
	}
	if n < 1 {
		if _, err := s.OwnerFormByUUID(ctx, ownerID, uuid); err != nil {
			return err
		}
		return ErrPublished
	}
	return nil
}

// ErrPublished signals an edit attempt on an already published form.
var ErrPublished = errors.New("form is published")

// Publish flips the published flag. Publishing an already published form is a
// no-op, not an error.
func (s *Store) Publish(ctx context.Context, ownerID, uuid string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE form
		SET published = 1
		WHERE uuid = ?
			AND owner_id = ?`,
		uuid,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("publish form: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("publish form: %w", err)
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}
