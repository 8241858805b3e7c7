package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// fileConfig is the on-disk shape of the JSON config file. Durations accept
// both "1h" and integer nanoseconds.
type fileConfig struct {
	Port                         string         `json:"port"`
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	StorageBackend               string         `json:"storage_backend"`
	RedisAddr                    string         `json:"redis_addr"`
	RedisPassword                string         `json:"redis_password"`
	RedisDB                      int            `json:"redis_db"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	LogBackend                   string         `json:"log_backend"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson overlays Config with the file named by -c or -config, if any.
// An unreadable or invalid file panics.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}
	if err := applyJSONFile(config, path); err != nil {
		panic(err)
	}
}

// applyJSONFile overlays config with the non-zero values found in path.
func applyJSONFile(config *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc fileConfig) apply(config *Config) {
	for dst, v := range map[*string]string{
		&config.Port:             fc.Port,
		&config.EndpointAddrGRPC: fc.EndpointAddrGRPC,
		&config.DatabaseDSN:      fc.DatabaseDSN,
		&config.StorageBackend:   fc.StorageBackend,
		&config.RedisAddr:        fc.RedisAddr,
		&config.RedisPassword:    fc.RedisPassword,
		&config.SecretKey:        fc.SecretKey,
		&config.LogBackend:       fc.LogBackend,
		&config.LogLevel:         fc.LogLevel,
	} {
		if v != "" {
			*dst = v
		}
	}

	if fc.RedisDB != 0 {
		config.RedisDB = fc.RedisDB
	}
	setDuration(&config.AccessTokenValidityDuration, fc.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, fc.RefreshTokenValidityDuration)
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
