package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PIN", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "sqlite://adetta_lite.db", cfg.DatabaseURL)
	assert.Equal(t, 12, cfg.SessionTTLHours)
	assert.False(t, cfg.GateEnabled())
	assert.Equal(t, "0.000001", cfg.Tolerance().String())
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PIN", "4821")
	t.Setenv("PORT", "9090")
	t.Setenv("PAYMENT_TOLERANCE", "0.01")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.GateEnabled())
	assert.Equal(t, "0.01", cfg.Tolerance().String())
}

func TestTolerance(t *testing.T) {
	for in, want := range map[string]string{
		"0.05": "0.05",
		"0":    "0",
		"-1":   "0",
		"abc":  "0",
		"":     "0",
	} {
		assert.Equal(t, want, (&Config{PaymentTolerance: in}).Tolerance().String(), in)
	}
}

func TestGateEnabled(t *testing.T) {
	assert.False(t, (&Config{}).GateEnabled())
	assert.True(t, (&Config{PIN: "1"}).GateEnabled())
	assert.True(t, (&Config{PINHash: "$2a$12$x"}).GateEnabled())
}
