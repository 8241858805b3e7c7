// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the local session store, the HTTP client and an
// interactive REPL. Commands: register, login, refresh, whoami, logout, exit.
// A background watcher pings the server and flips the prompt between online
// and offline. The REPL is started via App.Run(ctx), which blocks until the
// user exits.
package cli
