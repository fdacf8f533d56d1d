package config

import (
	"errors"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

func envOf(m map[string]string) Getenv {
	return func(k string) string { return m[k] }
}

func TestLoadFromEnv(t *testing.T) {
	tests := map[string]struct {
		env    map[string]string
		expErr error
		check  func(t *testing.T, cfg *Config)
	}{
		"Only the required values should give defaults for the rest": {
			env: map[string]string{
				"DATA_STORE_URL": "https://xyz.supabase.co",
				"DATA_STORE_KEY": "anon",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8080", cfg.AppPort)
				assert.Equal(t, "http://localhost:8080", cfg.AppUrl)
				assert.Equal(t, "dev", cfg.Env)
				assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
				assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
				assert.Nil(t, cfg.SessionSigningKey)
				assert.Nil(t, cfg.HubLatitude)
				assert.True(t, cfg.LDFlag_CORSHighSecurity)
				assert.False(t, cfg.LDFlag_SeedDbWithTestData)
				assert.True(t, cfg.LDFlag_ShowHubDistance)
				assert.True(t, cfg.IsDev())
			},
		},
		"Optional values should be read": {
			env: map[string]string{
				"DATA_STORE_URL":        "postgres://mitra@db/store",
				"DATA_STORE_KEY":        "pw",
				"APP_PORT":              "9090",
				"APP_URL_FROM_ANYWHERE": "https://mitra.mishtee.in",
				"ENV":                   "prod",
				"REQUEST_TIMEOUT":       "3s",
				"SESSION_IDLE_TIMEOUT":  "5m",
				"SESSION_SIGNING_KEY":   "secret",
				"HUB_LATITUDE":          "19.07",
				"HUB_LONGITUDE":         "72.87",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9090", cfg.AppPort)
				assert.Equal(t, "https://mitra.mishtee.in", cfg.AppUrl)
				assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
				assert.Equal(t, 5*time.Minute, cfg.SessionIdleTimeout)
				assert.Equal(t, []byte("secret"), cfg.SessionSigningKey)
				require.NotNil(t, cfg.HubLatitude)
				assert.InDelta(t, 19.07, *cfg.HubLatitude, 1e-9)
				assert.InDelta(t, 72.87, *cfg.HubLongitude, 1e-9)
				assert.False(t, cfg.IsDev())
			},
		},
		"A missing data store URL should fail": {
			env:    map[string]string{"DATA_STORE_KEY": "anon"},
			expErr: utils.ErrMissingConfig,
		},
		"A missing data store key should fail": {
			env:    map[string]string{"DATA_STORE_URL": "https://xyz.supabase.co"},
			expErr: utils.ErrMissingConfig,
		},
		"A bad timeout should fail": {
			env: map[string]string{
				"DATA_STORE_URL":  "memory://",
				"DATA_STORE_KEY":  "x",
				"REQUEST_TIMEOUT": "soon",
			},
			expErr: utils.ErrInvalidConfig,
		},
		"A half configured hub should fail": {
			env: map[string]string{
				"DATA_STORE_URL": "memory://",
				"DATA_STORE_KEY": "x",
				"HUB_LATITUDE":   "19.07",
			},
			expErr: utils.ErrInvalidConfig,
		},
		"A non numeric port should fail": {
			env: map[string]string{
				"DATA_STORE_URL": "memory://",
				"DATA_STORE_KEY": "x",
				"APP_PORT":       "http",
			},
			expErr: utils.ErrInvalidConfig,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := loadFromEnv(envOf(test.env))
			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			test.check(t, cfg)
		})
	}
}

type fakeFlags map[string]bool

func (f fakeFlags) BoolVariation(key string, _ ldcontext.Context, def bool) (bool, error) {
	v, ok := f[key]
	if !ok {
		return def, errors.New("unknown flag")
	}
	return v, nil
}

func TestApplyFlags(t *testing.T) {
	cfg, err := loadFromEnv(envOf(map[string]string{"DATA_STORE_URL": "memory://", "DATA_STORE_KEY": "x"}))
	require.NoError(t, err)

	applyFlags(cfg, fakeFlags{"cors_high_security": false, "seed_db_with_test_data": true}, ldcontext.New("test"))

	assert.False(t, cfg.LDFlag_CORSHighSecurity)
	assert.True(t, cfg.LDFlag_SeedDbWithTestData)
	// Unknown flag keeps its default.
	assert.True(t, cfg.LDFlag_ShowHubDistance)
}

func TestApplyFlagsWithoutSource(t *testing.T) {
	cfg, err := loadFromEnv(envOf(map[string]string{"DATA_STORE_URL": "memory://", "DATA_STORE_KEY": "x"}))
	require.NoError(t, err)

	applyFlags(cfg, nil, ldcontext.Context{})

	assert.True(t, cfg.LDFlag_CORSHighSecurity)
	assert.False(t, cfg.LDFlag_SeedDbWithTestData)
	assert.True(t, cfg.LDFlag_ShowHubDistance)
}
