package config

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"

	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

// FlagSource is the part of the LaunchDarkly client config reads from.
type FlagSource interface {
	BoolVariation(key string, context ldcontext.Context, defaultVal bool) (bool, error)
}

// applyFlags overwrites the flag fields of cfg. A nil source, or a flag that
// cannot be evaluated, keeps the default already in cfg.
func applyFlags(cfg *Config, src FlagSource, ctx ldcontext.Context) {
	cfg.LDFlag_CORSHighSecurity = boolFlag(src, ctx, "cors_high_security", cfg.LDFlag_CORSHighSecurity)
	cfg.LDFlag_SeedDbWithTestData = boolFlag(src, ctx, "seed_db_with_test_data", cfg.LDFlag_SeedDbWithTestData)
	cfg.LDFlag_ShowHubDistance = boolFlag(src, ctx, "show_hub_distance", cfg.LDFlag_ShowHubDistance)
}

func boolFlag(src FlagSource, ctx ldcontext.Context, key string, def bool) bool {
	if src == nil {
		utils.Logger.Debugf("%s flag: %t (default)", key, def)
		return def
	}
	v, err := src.BoolVariation(key, ctx, def)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Error retrieving %s flag, using %t", key, def)
		return def
	}
	utils.Logger.Debugf("%s flag: %t", key, v)
	return v
}
