// Package server publishes a songs directory over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Logging] records one line per request and [Recover] turns a handler panic into a 500.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Songs
//
// [SongsHandler] serves the layout the player's directory loader expects:
//
//	GET /songs/                 → HTML index of folders
//	GET /songs/{folder}/        → HTML listing, one <a href> per file
//	GET /songs/{folder}/{file}  → file bytes with range support
//
// Names that are hidden or would escape the songs root are answered with 404.
//
// # API
//
// [APIHandler] serves JSON: GET /health, GET /api/folders with per-folder track counts and
// GET /api/folders/{folder} with the ordered track list.
package server
