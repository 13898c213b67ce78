package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billgen/internal/bill"
	"billgen/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, int64(20<<20), cfg.Server.MaxUploadBytes())
	assert.Equal(t, 5.0, cfg.Bill.DefaultPremiumPercent)
	assert.Equal(t, bill.PremiumAbove, cfg.Bill.DefaultPremiumType)
	assert.Equal(t, bill.DefaultLayout(), cfg.Bill.Layout)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "@every 30m", cfg.Cleanup.Schedule)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8501"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BILLGEN_SERVER_PORT", ":9090")
	t.Setenv("BILLGEN_BILL_DEFAULT_PREMIUM_TYPE", " Below ")
	t.Setenv("BILLGEN_BILL_LAYOUT_EXTRA_ITEMS_DATA_START_ROW", "5")
	t.Setenv("BILLGEN_BILL_LAYOUT_WORK_ORDER_COLUMNS_RATE", "8")
	t.Setenv("BILLGEN_CACHE_TTL", "90s")
	t.Setenv("BILLGEN_CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, bill.PremiumBelow, cfg.Bill.DefaultPremiumType)
	assert.Equal(t, 5, cfg.Bill.Layout.ExtraItems.DataStartRow)
	assert.Equal(t, 8, cfg.Bill.Layout.WorkOrder.Columns.Rate)
	assert.Equal(t, bill.DefaultLayout().ExtraItems.Columns.Rate, cfg.Bill.Layout.ExtraItems.Columns.Rate)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("BILLGEN_SERVER_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Port)
}

func TestLoad_InvalidBillSettings(t *testing.T) {
	t.Setenv("BILLGEN_BILL_DEFAULT_PREMIUM_TYPE", "sideways")
	_, err := config.Load()
	assert.ErrorIs(t, err, bill.ErrInvalidPremiumType)

	t.Setenv("BILLGEN_BILL_DEFAULT_PREMIUM_TYPE", "above")
	t.Setenv("BILLGEN_BILL_LAYOUT_EXTRA_ITEMS_COLUMNS_UNIT", "-1")
	_, err = config.Load()
	assert.ErrorIs(t, err, bill.ErrInvalidLayout)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", db.DSN())
}
