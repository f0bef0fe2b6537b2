// Package models defines domain entities and persistence interfaces for songdeck.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs passed between the library, formatter and CLI
//   - [Playlist] : A folder's ordered track listing with its artist label
//   - [FolderSummary] : Folder name, artist and track count as served by /api/folders
//
// 2. Persistent Entities: Database-backed models
//   - [Folder] : A scanned folder with its cached track listing
//   - [Listen] : One play-history entry, written whenever a track starts
//
// All persistent entities implement the [Model] interface; the [Repository] interface defines standard CRUD operations.
package models
