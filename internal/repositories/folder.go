package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

var _ models.Repository[*models.Folder] = (*FolderRepository)(nil)

const folderColumns = "id, sequence, name, artist, scanned_at, created_at, updated_at"

// FolderRepository implements models.Repository[*models.Folder] for the library cache.
//
// Track listings live in folder_tracks keyed by position so the cached order matches the listing order.
type FolderRepository struct {
	db *sql.DB
}

// NewFolderRepository creates a new FolderRepository with the given database connection
func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create inserts a new folder and its tracks with generated ID and sequence
func (r *FolderRepository) Create(folder *models.Folder) error {
	if err := folder.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "folders")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO folders (id, sequence, name, artist, track_count, scanned_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		id,
		sequence,
		folder.Name(),
		folder.Artist(),
		folder.TrackCount(),
		folder.ScannedAt(),
		folder.CreatedAt(),
		folder.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert folder: %w", err)
	}

	if err := insertTracks(tx, id, folder.Tracks()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit folder: %w", err)
	}

	folder.SetID(id)
	folder.SetSequence(sequence)
	return nil
}

// Get retrieves a folder and its tracks by ID
func (r *FolderRepository) Get(id string) (*models.Folder, error) {
	query := "SELECT " + folderColumns + " FROM folders WHERE id = ?"

	folder, err := r.scanOne(r.db.QueryRow(query, id), id)
	if err != nil {
		return nil, err
	}
	return folder, r.loadTracks(folder)
}

// GetByName retrieves a folder and its tracks by folder name
func (r *FolderRepository) GetByName(name string) (*models.Folder, error) {
	query := "SELECT " + folderColumns + " FROM folders WHERE name = ?"

	folder, err := r.scanOne(r.db.QueryRow(query, name), name)
	if err != nil {
		return nil, err
	}
	return folder, r.loadTracks(folder)
}

// Update rewrites a folder's artist, scan time and track listing
func (r *FolderRepository) Update(folder *models.Folder) error {
	if err := folder.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE folders
		SET artist = ?, track_count = ?, scanned_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := tx.Exec(query, folder.Artist(), folder.TrackCount(), folder.ScannedAt(), now, folder.ID())
	if err != nil {
		return fmt.Errorf("failed to update folder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrFolderNotFound, folder.ID())
	}

	if _, err := tx.Exec("DELETE FROM folder_tracks WHERE folder_id = ?", folder.ID()); err != nil {
		return fmt.Errorf("failed to clear folder tracks: %w", err)
	}
	if err := insertTracks(tx, folder.ID(), folder.Tracks()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit folder: %w", err)
	}

	folder.SetUpdatedAt(now)
	return nil
}

// Upsert stores a freshly scanned folder, replacing the cached listing when the name is already known
func (r *FolderRepository) Upsert(folder *models.Folder) error {
	existing, err := r.GetByName(folder.Name())
	if errors.Is(err, shared.ErrFolderNotFound) {
		return r.Create(folder)
	}
	if err != nil {
		return err
	}

	existing.SetArtist(folder.Artist())
	existing.SetTracks(folder.Tracks())
	existing.SetScannedAt(folder.ScannedAt())
	if err := r.Update(existing); err != nil {
		return err
	}

	folder.SetID(existing.ID())
	folder.SetSequence(existing.Sequence())
	return nil
}

// Delete removes a folder and, through the foreign key cascade, its tracks
func (r *FolderRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM folders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrFolderNotFound, id)
	}

	return nil
}

// List retrieves cached folders ordered by name.
//
// Supported criteria: "artist" (exact match).
func (r *FolderRepository) List(criteria map[string]any) ([]*models.Folder, error) {
	query := "SELECT " + folderColumns + " FROM folders WHERE 1 = 1"
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}

	var folders []*models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	// tracks are loaded after the cursor is closed; an in-memory database has one connection
	for _, folder := range folders {
		if err := r.loadTracks(folder); err != nil {
			return nil, err
		}
	}

	return folders, nil
}

func (r *FolderRepository) loadTracks(folder *models.Folder) error {
	rows, err := r.db.Query("SELECT filename FROM folder_tracks WHERE folder_id = ? ORDER BY position ASC", folder.ID())
	if err != nil {
		return fmt.Errorf("failed to query folder tracks: %w", err)
	}
	defer rows.Close()

	tracks := []string{}
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return fmt.Errorf("failed to scan folder track: %w", err)
		}
		tracks = append(tracks, filename)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	folder.SetTracks(tracks)
	return nil
}

func insertTracks(tx *sql.Tx, folderID string, tracks []string) error {
	stmt, err := tx.Prepare("INSERT INTO folder_tracks (folder_id, position, filename) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	for i, track := range tracks {
		if _, err := stmt.Exec(folderID, i, track); err != nil {
			return fmt.Errorf("failed to insert folder track: %w", err)
		}
	}
	return nil
}

// scanOne scans a single row into a [models.Folder] without its tracks
func (r *FolderRepository) scanOne(row *sql.Row, key string) (*models.Folder, error) {
	folder, err := scanFolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrFolderNotFound, key)
	}
	return folder, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFolder(s scanner) (*models.Folder, error) {
	var (
		id        string
		sequence  int
		name      string
		artist    string
		scannedAt sql.NullTime
		createdAt time.Time
		updatedAt time.Time
	)

	if err := s.Scan(&id, &sequence, &name, &artist, &scannedAt, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan folder: %w", err)
	}

	return models.RestoreFolder(id, sequence, name, artist, nil, scannedAt.Time, createdAt, updatedAt), nil
}
