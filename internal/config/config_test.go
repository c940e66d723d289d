package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8080"},
		MongoDB: MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "cropbook"},
		Reporting: ReportingConfig{
			CronSchedule: "0 20 * * *",
			Timezone:     "Africa/Conakry",
			Granularity:  "month",
			TopN:         5,
		},
	}
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }},
		{"missing mongo uri", func(c *Config) { c.MongoDB.URI = "" }},
		{"missing cron schedule", func(c *Config) { c.Reporting.CronSchedule = "" }},
		{"unknown granularity", func(c *Config) { c.Reporting.Granularity = "fortnight" }},
		{"non-positive top n", func(c *Config) { c.Reporting.TopN = 0 }},
		{"sheets credentials without spreadsheet", func(c *Config) { c.Sheets.CredentialsPath = "/tmp/creds.json" }},
		{"market key without base url", func(c *Config) { c.Market.APIKey = "secret" }},
	}

	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		assert.Error(t, cfg.Validate(), tc.name)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "cropbook", cfg.MongoDB.DBName)
	assert.Equal(t, "month", cfg.Reporting.Granularity)
	assert.Equal(t, 5, cfg.Reporting.TopN)
	assert.False(t, cfg.SheetsEnabled())
}
