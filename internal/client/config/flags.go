package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var clientFlags = []string{"-a", "-f", "-t", "-i", "-l"}

func parseFlags(cfg *Config) {
	if err := applyFlags(cfg, os.Args[1:]); err != nil {
		panic(err)
	}
}

// applyFlags reads the CLI flags out of args. Durations use time.ParseDuration
// syntax ("5s", "1m").
//
//	-a  server base URL, e.g. http://127.0.0.1:3000
//	-f  session database file
//	-t  request timeout
//	-i  online check interval
//	-l  log level
func applyFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	fs.StringVar(&cfg.SessionDB, "f", cfg.SessionDB, "session database file")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "online check interval")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, clientFlags)); err != nil {
		return fmt.Errorf("cli flags: %w", err)
	}
	return nil
}
