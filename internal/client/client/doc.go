// Package client contains the CLI's transport to the gophauth server.
//
// The package provides:
//  1. The Client interface: SignUp, SignIn, SignOut, Refresh, Protected and Ping.
//  2. HTTPClient, a JSON-over-HTTP implementation talking to the /auth routes.
//  3. InitDatabase and RunMigrations, which open the local SQLite session store
//     and apply the embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable; a 401 is ErrUnauthorized; a 404 from
// the refresh route is common.ErrRefreshTokenNotFound. Every other unexpected
// status comes back as *APIError carrying the server's plain-text message.
package client
