package config

import "github.com/caarlos0/env/v11"

const envPrefix = "GOPHAUTH_"

// parseEnv overlays fields from GOPHAUTH_-prefixed variables, e.g.
// GOPHAUTH_SERVER_URL. Unset variables leave the field alone.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}
}
