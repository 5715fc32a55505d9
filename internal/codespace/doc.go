// Package codespace wraps the gh CLI operations cspace needs: create,
// ssh, list, start, delete and logs.
//
// All calls go through a [Runner] so tests can replace gh. The default
// runner uses go-gh, which locates gh the same way the gh extension
// tooling does.
package codespace
