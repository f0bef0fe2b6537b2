package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/player"
	"github.com/desertthunder/songdeck/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "folders")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown table, got %v", err)
	}

	t.Run("inside a transaction", func(t *testing.T) {
		tx, err := db.Begin()
		if err != nil {
			t.Fatalf("failed to begin: %v", err)
		}
		defer tx.Rollback()

		got, err := NextSequence(tx, "listens")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 1 {
			t.Errorf("expected first listen sequence 1, got %d", got)
		}
	})
}

func TestFolderRepository(t *testing.T) {
	newFolder := func(name string, tracks ...string) *models.Folder {
		return models.NewFolder(0, name, "Guru Randhawa", tracks)
	}

	t.Run("Create", func(t *testing.T) {
		repo := NewFolderRepository(setupTestDB(t))
		folder := newFolder("guru-randhawa", "Lahore.mp3", "Ishare Tere.mp3")

		if err := repo.Create(folder); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}
		if folder.ID() == "" {
			t.Error("folder ID should be set after creation")
		}
		if folder.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", folder.Sequence())
		}
	})

	t.Run("Create rejects invalid folders", func(t *testing.T) {
		repo := NewFolderRepository(setupTestDB(t))

		if err := repo.Create(newFolder("../etc")); err == nil {
			t.Error("expected validation error")
		}
		if err := repo.Create(models.NewFolder(0, "ok", "", nil)); err == nil {
			t.Error("expected validation error for missing artist")
		}
	})

	t.Run("Create rejects duplicate names", func(t *testing.T) {
		repo := NewFolderRepository(setupTestDB(t))

		if err := repo.Create(newFolder("dup")); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}
		if err := repo.Create(newFolder("dup")); err == nil {
			t.Error("expected unique constraint error")
		}
	})

	t.Run("Get keeps track order", func(t *testing.T) {
		repo := NewFolderRepository(setupTestDB(t))
		tracks := []string{"b.mp3", "a.mp3", "c.mp3"}
		folder := newFolder("ordered", tracks...)
		if err := repo.Create(folder); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}

		got, err := repo.Get(folder.ID())
		if err != nil {
			t.Fatalf("failed to get folder: %v", err)
		}
		if got.Name() != "ordered" || got.Artist() != "Guru Randhawa" {
			t.Errorf("unexpected folder: %s / %s", got.Name(), got.Artist())
		}

		gotTracks := got.Tracks()
		if len(gotTracks) != len(tracks) {
			t.Fatalf("expected %d tracks, got %v", len(tracks), gotTracks)
		}
		for i := range tracks {
			if gotTracks[i] != tracks[i] {
				t.Errorf("track %d: expected %s, got %s", i, tracks[i], gotTracks[i])
			}
		}
	})

	t.Run("GetByName", func(t *testing.T) {
		repo := NewFolderRepository(setupTestDB(t))
		folder := newFolder("named", "x.mp3")
		if err := repo.Create(folder); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}

		got, err := repo.GetByName("named")
		if err != nil {
			t.Fatalf("failed to get folder: %v", err)
		}
		if got.ID() != folder.ID() || got.TrackCount() != 1 {
			t.Errorf("unexpected folder %s with %d tracks", got.ID(), got.TrackCount())
		}

		if _, err := repo.GetByName("missing"); !errors.Is(err, shared.ErrFolderNotFound) {
			t.Errorf("expected ErrFolderNotFound, got %v", err)
		}
	})

	t.Run("Update replaces tracks", func(t *testing.T) {
		repo := NewFolderRepository(setupTestDB(t))
		folder := newFolder("changing", "old.mp3")
		if err := repo.Create(folder); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}

		folder.SetTracks([]string{"new-1.mp3", "new-2.mp3"})
		folder.SetArtist("Karan Aujla")
		if err := repo.Update(folder); err != nil {
			t.Fatalf("failed to update folder: %v", err)
		}

		got, err := repo.Get(folder.ID())
		if err != nil {
			t.Fatalf("failed to get folder: %v", err)
		}
		if got.Artist() != "Karan Aujla" {
			t.Errorf("expected artist Karan Aujla, got %s", got.Artist())
		}
		if tracks := got.Tracks(); len(tracks) != 2 || tracks[0] != "new-1.mp3" {
			t.Errorf("unexpected tracks: %v", tracks)
		}
	})

	t.Run("Update missing folder", func(t *testing.T) {
		repo := NewFolderRepository(setupTestDB(t))
		folder := newFolder("ghost")
		folder.SetID("nonexistent-id")

		if err := repo.Update(folder); !errors.Is(err, shared.ErrFolderNotFound) {
			t.Errorf("expected ErrFolderNotFound, got %v", err)
		}
	})

	t.Run("Upsert", func(t *testing.T) {
		repo := NewFolderRepository(setupTestDB(t))

		first := newFolder("scanned", "one.mp3")
		if err := repo.Upsert(first); err != nil {
			t.Fatalf("failed to insert folder: %v", err)
		}

		second := newFolder("scanned", "one.mp3", "two.mp3")
		if err := repo.Upsert(second); err != nil {
			t.Fatalf("failed to replace folder: %v", err)
		}
		if second.ID() != first.ID() {
			t.Errorf("expected upsert to keep ID %s, got %s", first.ID(), second.ID())
		}

		folders, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list folders: %v", err)
		}
		if len(folders) != 1 || folders[0].TrackCount() != 2 {
			t.Errorf("expected one folder with 2 tracks, got %d folders", len(folders))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewFolderRepository(db)
		folder := newFolder("doomed", "a.mp3", "b.mp3")
		if err := repo.Create(folder); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}

		if err := repo.Delete(folder.ID()); err != nil {
			t.Fatalf("failed to delete folder: %v", err)
		}
		if _, err := repo.Get(folder.ID()); !errors.Is(err, shared.ErrFolderNotFound) {
			t.Errorf("expected ErrFolderNotFound, got %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM folder_tracks").Scan(&count); err != nil {
			t.Fatalf("failed to count tracks: %v", err)
		}
		if count != 0 {
			t.Errorf("expected tracks to cascade, %d remain", count)
		}

		if err := repo.Delete(folder.ID()); !errors.Is(err, shared.ErrFolderNotFound) {
			t.Errorf("expected ErrFolderNotFound on second delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewFolderRepository(setupTestDB(t))
		for _, f := range []*models.Folder{
			models.NewFolder(0, "zeta", "Guru Randhawa", []string{"z.mp3"}),
			models.NewFolder(0, "alpha", "Karan Aujla", []string{"a.mp3", "b.mp3"}),
			models.NewFolder(0, "mid", "Guru Randhawa", nil),
		} {
			if err := repo.Create(f); err != nil {
				t.Fatalf("failed to create folder: %v", err)
			}
		}

		folders, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list folders: %v", err)
		}
		if len(folders) != 3 {
			t.Fatalf("expected 3 folders, got %d", len(folders))
		}
		if folders[0].Name() != "alpha" || folders[0].TrackCount() != 2 {
			t.Errorf("expected alpha with 2 tracks first, got %s with %d", folders[0].Name(), folders[0].TrackCount())
		}

		filtered, err := repo.List(map[string]any{"artist": "Guru Randhawa"})
		if err != nil {
			t.Fatalf("failed to list folders: %v", err)
		}
		if len(filtered) != 2 {
			t.Errorf("expected 2 folders by artist, got %d", len(filtered))
		}
	})
}

func TestListenRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		repo := NewListenRepository(setupTestDB(t))
		listen := models.NewListen("guru-randhawa", "Lahore.mp3", "Guru Randhawa", true)

		if err := repo.Create(listen); err != nil {
			t.Fatalf("failed to create listen: %v", err)
		}

		got, err := repo.Get(listen.ID())
		if err != nil {
			t.Fatalf("failed to get listen: %v", err)
		}
		if got.Track() != "Lahore.mp3" || !got.Random() || got.Artist() != "Guru Randhawa" {
			t.Errorf("unexpected listen: %s random=%v artist=%s", got.Track(), got.Random(), got.Artist())
		}
		if got.PlayedAt().IsZero() {
			t.Error("expected played_at to be stored")
		}
	})

	t.Run("Create rejects invalid listens", func(t *testing.T) {
		repo := NewListenRepository(setupTestDB(t))
		if err := repo.Create(models.NewListen("folder", "", "", false)); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("Update is not supported", func(t *testing.T) {
		repo := NewListenRepository(setupTestDB(t))
		if err := repo.Update(models.NewListen("f", "t.mp3", "a", false)); !errors.Is(err, shared.ErrNotImplemented) {
			t.Errorf("expected ErrNotImplemented, got %v", err)
		}
	})

	t.Run("Delete is soft", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewListenRepository(db)
		listen := models.NewListen("f", "t.mp3", "a", false)
		if err := repo.Create(listen); err != nil {
			t.Fatalf("failed to create listen: %v", err)
		}

		if err := repo.Delete(listen.ID()); err != nil {
			t.Fatalf("failed to delete listen: %v", err)
		}
		if _, err := repo.Get(listen.ID()); !errors.Is(err, ErrListenNotFound) {
			t.Errorf("expected ErrListenNotFound, got %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM listens WHERE deleted_at IS NOT NULL").Scan(&count); err != nil {
			t.Fatalf("failed to count listens: %v", err)
		}
		if count != 1 {
			t.Errorf("expected row to remain with deleted_at set, got %d", count)
		}

		if err := repo.Delete(listen.ID()); !errors.Is(err, ErrListenNotFound) {
			t.Errorf("expected ErrListenNotFound on second delete, got %v", err)
		}
	})

	t.Run("List and Recent", func(t *testing.T) {
		repo := NewListenRepository(setupTestDB(t))
		tracks := []struct {
			folder string
			track  string
			random bool
		}{
			{"a", "1.mp3", false},
			{"b", "2.mp3", true},
			{"a", "3.mp3", false},
		}
		for _, tr := range tracks {
			if err := repo.Create(models.NewListen(tr.folder, tr.track, "artist", tr.random)); err != nil {
				t.Fatalf("failed to create listen: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list listens: %v", err)
		}
		if len(all) != 3 || all[0].Track() != "1.mp3" {
			t.Errorf("expected 3 listens oldest first, got %d", len(all))
		}

		byFolder, err := repo.List(map[string]any{"folder": "a"})
		if err != nil {
			t.Fatalf("failed to list listens: %v", err)
		}
		if len(byFolder) != 2 {
			t.Errorf("expected 2 listens in folder a, got %d", len(byFolder))
		}

		shuffled, err := repo.List(map[string]any{"random": true})
		if err != nil {
			t.Fatalf("failed to list listens: %v", err)
		}
		if len(shuffled) != 1 || shuffled[0].Track() != "2.mp3" {
			t.Errorf("expected one random listen, got %d", len(shuffled))
		}

		recent, err := repo.Recent(2)
		if err != nil {
			t.Fatalf("failed to get recent listens: %v", err)
		}
		if len(recent) != 2 || recent[0].Track() != "3.mp3" || recent[1].Track() != "2.mp3" {
			t.Errorf("expected newest two listens, got %d", len(recent))
		}

		everything, err := repo.Recent(0)
		if err != nil {
			t.Fatalf("failed to get recent listens: %v", err)
		}
		if len(everything) != 3 {
			t.Errorf("expected all 3 listens, got %d", len(everything))
		}
	})
}

func TestHistoryRecorder(t *testing.T) {
	repo := NewListenRepository(setupTestDB(t))
	recorder := NewHistoryRecorder(repo, nil)

	recorder.OnEvent(player.Event{Kind: player.Highlight, Index: 0, Track: "skip.mp3"})
	recorder.OnEvent(player.Event{Kind: player.NowPlaying, Folder: "guru-randhawa", Artist: "Guru Randhawa", Track: "Lahore.mp3", Random: true})
	recorder.OnEvent(player.Event{Kind: player.NowPlaying, Folder: "guru-randhawa"})

	listens, err := repo.List(nil)
	if err != nil {
		t.Fatalf("failed to list listens: %v", err)
	}
	if len(listens) != 1 {
		t.Fatalf("expected exactly one listen, got %d", len(listens))
	}
	if listens[0].Track() != "Lahore.mp3" || !listens[0].Random() {
		t.Errorf("unexpected listen: %s random=%v", listens[0].Track(), listens[0].Random())
	}
}
