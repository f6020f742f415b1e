package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CSRF_SECRET", "csrf")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, "stockbook_session", cfg.SessionName)
	require.Equal(t, 30*time.Second, cfg.AppRequestTimeout)
	require.Equal(t, "5 0 * * *", cfg.SummaryCron)
	require.Equal(t, "30 3 * * 0", cfg.EventsPruneCron)
	require.True(t, cfg.InventoryAllowNegative)
	require.False(t, cfg.PaymentsEnabled())
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("APP_ENV", "production")
	t.Setenv("INVENTORY_ALLOW_NEGATIVE", "false")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("CRON_SECRET", "cron")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.False(t, cfg.InventoryAllowNegative)
	require.True(t, cfg.PaymentsEnabled())
	require.Equal(t, "cron", cfg.CronSecret)
}

func TestLoadConfigRequiresCSRFSecret(t *testing.T) {
	t.Setenv("CSRF_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestInTestModeFollowsEnvironment(t *testing.T) {
	t.Setenv("STOCKBOOK_TEST_MODE", "1")
	RefreshTestMode()
	require.True(t, InTestMode())

	t.Setenv("STOCKBOOK_TEST_MODE", "0")
	RefreshTestMode()
	require.False(t, InTestMode())
}
