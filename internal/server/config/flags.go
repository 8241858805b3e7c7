package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var serverFlags = []string{"-p", "-a", "-d", "-b", "-R", "-D", "-s", "-t", "-r", "-L", "-l"}

// parseFlags overlays Config with the server flags found in os.Args and
// panics on a malformed value.
func parseFlags(config *Config) {
	if err := applyFlags(config, os.Args[1:]); err != nil {
		panic(err)
	}
}

// applyFlags parses the server flags out of args. Other components' flags are
// skipped. Token lifetimes are given in whole minutes.
//
//	-p  HTTP port            -b  storage backend (postgres|memory)
//	-a  gRPC health address  -R  redis address, -D redis db
//	-d  PostgreSQL DSN       -s  JWT secret
//	-t  access TTL, min      -r  refresh TTL, min
//	-L  log backend          -l  log level
func applyFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Port, "p", config.Port, "HTTP port")
	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC health endpoint address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend (postgres|memory)")
	fs.StringVar(&config.RedisAddr, "R", config.RedisAddr, "redis address for refresh tokens")
	fs.IntVar(&config.RedisDB, "D", config.RedisDB, "redis database number")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret")
	fs.StringVar(&config.LogBackend, "L", config.LogBackend, "log backend (slog|zap)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	accessMin := fs.Int("t", int(config.AccessTokenValidityDuration/time.Minute), "access token TTL, minutes")
	refreshMin := fs.Int("r", int(config.RefreshTokenValidityDuration/time.Minute), "refresh token TTL, minutes")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return fmt.Errorf("server flags: %w", err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessMin) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshMin) * time.Minute
	return nil
}
