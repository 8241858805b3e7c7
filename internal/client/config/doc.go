// Package config loads runtime configuration for the gophauth CLI.
//
// Sources, later wins:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. GOPHAUTH_-prefixed environment variables.
//  4. Command-line flags.
//
// JSON example:
//
//	{
//	  "server_url": "http://127.0.0.1:3000",
//	  "session_db": "session.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
