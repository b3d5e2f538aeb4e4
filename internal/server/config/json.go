package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dailyword/internal/flagx"
	"github.com/dmitrijs2005/dailyword/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "10s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC        string         `json:"endpoint_addr_grpc"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	BibleAPIBaseURL         string         `json:"bible_api_base_url"`
	BibleAPIUsername        string         `json:"bible_api_username"`
	BibleAPIPassword        string         `json:"bible_api_password"`
	BibleAPITimeout         timex.Duration `json:"bible_api_timeout"`
	CredentialRefreshWindow timex.Duration `json:"credential_refresh_window"`
	WarningWebhookURL       string         `json:"warning_webhook_url"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Without the flag nothing is loaded. Keys missing from the file keep
// their current values. An unreadable or malformed file panics, the same as
// a bad flag.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.BibleAPIBaseURL, c.BibleAPIBaseURL)
	setString(&config.BibleAPIUsername, c.BibleAPIUsername)
	setString(&config.BibleAPIPassword, c.BibleAPIPassword)
	setString(&config.WarningWebhookURL, c.WarningWebhookURL)

	if c.BibleAPITimeout.Duration > 0 {
		config.BibleAPITimeout = c.BibleAPITimeout.Duration
	}
	if c.CredentialRefreshWindow.Duration > 0 {
		config.CredentialRefreshWindow = c.CredentialRefreshWindow.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
