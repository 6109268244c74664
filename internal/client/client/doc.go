// Package client contains client-side building blocks for GophFeed.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the GophFeed backend: Me/Login/Register/UpdateProfile for accounts,
//     ListPosts/CreatePost/ToggleLike/DeletePost for the feed, and Ping.
//  2. A concrete REST implementation (see HTTPClient) that holds the bearer
//     token, attaches it to every request, bounds each call with a timeout
//     and maps transport outcomes to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Business-rule failures reported by the server (success=false) surface as
// *APIError carrying the server's message. Everything else is exposed as
// sentinel errors that callers can match with errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrTimeout, ErrMalformedResponse, ErrUnexpectedStatus.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation; a deadline hit is reported as
// ErrTimeout.
package client
