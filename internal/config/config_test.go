package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9000

[database]
user = "booking"
password = "secret"
dbname = "booking"

[catalog_service]
url = "http://catalog:8081"

[booking]
horizon_days = 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, 30, cfg.Booking.HorizonDays)
	// Defaults survive partial files
	assert.Equal(t, 30, cfg.Booking.SlotGranularityMinutes)
	assert.Equal(t, 24, cfg.Booking.MinNoticeHours)
	assert.Equal(t, 48, cfg.Booking.FullRefundHours)
	assert.Contains(t, cfg.Database.DSN(), "dbname=booking")
	assert.Contains(t, cfg.Database.DSN(), "sslmode=disable")
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(writeConfig(t, `
[database]
user = "booking"
dbname = ""
[catalog_service]
url = "http://catalog:8081"
`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `
[database]
user = "booking"
dbname = "booking"
[catalog_service]
url = "http://catalog:8081"
[kafka]
enabled = true
`))
	assert.Error(t, err, "kafka enabled without brokers must fail")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
