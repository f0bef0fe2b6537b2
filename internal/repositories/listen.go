package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

var _ models.Repository[*models.Listen] = (*ListenRepository)(nil)

const listenColumns = "id, sequence, folder, track, artist, random, played_at, created_at, updated_at, deleted_at"

// ErrListenNotFound is returned when no live listen matches the requested ID.
var ErrListenNotFound = errors.New("listen not found")

// ListenRepository implements models.Repository[*models.Listen] for play history.
//
// History is append-only: Update is not supported and Delete is a soft delete.
type ListenRepository struct {
	db *sql.DB
}

// NewListenRepository creates a new ListenRepository with the given database connection
func NewListenRepository(db *sql.DB) *ListenRepository {
	return &ListenRepository{db: db}
}

// Create inserts a new listen with generated ID and sequence
func (r *ListenRepository) Create(listen *models.Listen) error {
	if err := listen.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "listens")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO listens (id, sequence, folder, track, artist, random, played_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		listen.Folder(),
		listen.Track(),
		listen.Artist(),
		listen.Random(),
		listen.PlayedAt(),
		listen.CreatedAt(),
		listen.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert listen: %w", err)
	}

	listen.SetID(id)
	listen.SetSequence(sequence)
	return nil
}

// Get retrieves a listen by ID, excluding soft-deleted listens
func (r *ListenRepository) Get(id string) (*models.Listen, error) {
	query := "SELECT " + listenColumns + " FROM listens WHERE id = ? AND deleted_at IS NULL"

	listen, err := scanListen(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrListenNotFound, id)
	}
	return listen, err
}

// Update is not supported; history entries are immutable.
func (r *ListenRepository) Update(*models.Listen) error {
	return fmt.Errorf("%w: listens cannot be updated", shared.ErrNotImplemented)
}

// Delete soft-deletes a listen by ID
func (r *ListenRepository) Delete(id string) error {
	now := time.Now().UTC()

	result, err := r.db.Exec("UPDATE listens SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL", now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete listen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrListenNotFound, id)
	}

	return nil
}

// List retrieves live listens oldest first.
//
// Supported criteria: "folder" (exact match), "random" (bool).
func (r *ListenRepository) List(criteria map[string]any) ([]*models.Listen, error) {
	query := "SELECT " + listenColumns + " FROM listens WHERE deleted_at IS NULL"
	args := []any{}

	if folder, ok := criteria["folder"].(string); ok && folder != "" {
		query += " AND folder = ?"
		args = append(args, folder)
	}

	if random, ok := criteria["random"].(bool); ok {
		query += " AND random = ?"
		args = append(args, random)
	}

	query += " ORDER BY sequence ASC"
	return r.query(query, args...)
}

// Recent returns at most limit live listens, newest first. A non-positive limit returns every listen.
func (r *ListenRepository) Recent(limit int) ([]*models.Listen, error) {
	query := "SELECT " + listenColumns + " FROM listens WHERE deleted_at IS NULL ORDER BY sequence DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return r.query(query)
}

func (r *ListenRepository) query(query string, args ...any) ([]*models.Listen, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listens: %w", err)
	}
	defer rows.Close()

	var listens []*models.Listen
	for rows.Next() {
		listen, err := scanListen(rows)
		if err != nil {
			return nil, err
		}
		listens = append(listens, listen)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return listens, nil
}

func scanListen(s scanner) (*models.Listen, error) {
	var (
		id        string
		sequence  int
		folder    string
		track     string
		artist    string
		random    bool
		playedAt  time.Time
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := s.Scan(&id, &sequence, &folder, &track, &artist, &random, &playedAt, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan listen: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreListen(id, sequence, folder, track, artist, random, playedAt, createdAt, updatedAt, deleted), nil
}
