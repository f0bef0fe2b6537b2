// Package tasks runs long library operations with real-time progress reporting.
//
// # Library Scan
//
// [Scanner.Scan] fetches the listing of every folder through a [library.Loader] using a worker pool, with a
// token-bucket limiter pacing how fast listings are requested. When the loader also implements [Fetcher] a failed
// listing is reported as a failure; otherwise an empty listing is counted as an empty folder. Results can be
// persisted through a [FolderStore] (repositories.FolderRepository), which the `tracks --cached` and
// `folders --cached` commands read back through [CachedLoader].
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel. Updates use select with default so reporting
// never blocks the scan.
package tasks
