// Package repositories implements SQLite persistence for scanned folders and play history.
//
// Key Implementations:
//   - [FolderRepository] : The library cache written by `songdeck scan`, one row per folder plus its ordered tracks
//   - [ListenRepository] : Append-only play history with soft deletes
//   - [HistoryRecorder] : A player listener that writes a listen whenever a track starts
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// [NextSequence] advances the per-table counter with a single UPDATE ... RETURNING.
// Call it on the *sql.DB before opening a transaction, or on the *sql.Tx itself: an in-memory database has a single connection.
package repositories
