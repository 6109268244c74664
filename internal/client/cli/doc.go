// Package cli provides the interactive GophFeed command-line client.
//
// It wires configuration, the local session database, the REST API client,
// the session store and the feed controller behind a small REPL. Typical
// flow: validate the persisted session, start a background connectivity
// watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout with a session that survives restarts
//   - Show the feed, publish posts, like and delete them
//   - Feed totals (posts, authors, likes)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
