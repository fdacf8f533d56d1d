package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/KaranKool/mishtee-mitra/internal/constants"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	Env              string

	// Data store
	DataStoreURL string
	DataStoreKey string

	// Timing
	RequestTimeout     time.Duration
	SessionIdleTimeout time.Duration

	// Sessions
	SessionSigningKey []byte

	// Dispatch hub, nil when not configured
	HubLatitude  *float64
	HubLongitude *float64

	// LaunchDarkly flags
	LDFlag_CORSHighSecurity   bool
	LDFlag_SeedDbWithTestData bool
	LDFlag_ShowHubDistance    bool
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second
	defaultAppPort      = "8080"
	defaultEnv          = "dev"
)

// build-time overrides
var (
	AppName             = "mishtee-mitra"
	LDServerContextKey  = "mishtee-mitra"
	LDServerContextKind = "service"
)

// LoadConfig reads the environment and the flag snapshot. Any problem with
// required values is fatal.
func LoadConfig() *Config {
	if AppName == "" {
		utils.Logger.Fatal("AppName ldflag missing")
	}
	utils.Logger.Info("Loading config for app: ", AppName)

	cfg, err := loadFromEnv(os.Getenv)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}

	ldSDKKey := os.Getenv("LD_SDK_KEY")
	if ldSDKKey == "" {
		utils.Logger.Warn("LD_SDK_KEY not set, using flag defaults")
		applyFlags(cfg, nil, ldcontext.Context{})
		return cfg
	}

	ldClient, err := ld.MakeClient(ldSDKKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !ldClient.Initialized() {
		ldClient.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)
	applyFlags(cfg, ldClient, ctx)
	return cfg
}

// Getenv matches os.Getenv.
type Getenv func(string) string

func loadFromEnv(getenv Getenv) (*Config, error) {
	dataStoreURL := strings.TrimSpace(getenv("DATA_STORE_URL"))
	if dataStoreURL == "" {
		return nil, fmt.Errorf("%w: DATA_STORE_URL env var is missing", utils.ErrMissingConfig)
	}
	if _, err := url.Parse(dataStoreURL); err != nil {
		return nil, fmt.Errorf("%w: DATA_STORE_URL: %v", utils.ErrInvalidConfig, err)
	}
	dataStoreKey := strings.TrimSpace(getenv("DATA_STORE_KEY"))
	if dataStoreKey == "" {
		return nil, fmt.Errorf("%w: DATA_STORE_KEY env var is missing", utils.ErrMissingConfig)
	}

	appPort := getenv("APP_PORT")
	if appPort == "" {
		appPort = defaultAppPort
	}
	if _, err := strconv.Atoi(appPort); err != nil {
		return nil, fmt.Errorf("%w: APP_PORT %q is not a port", utils.ErrInvalidConfig, appPort)
	}
	appUrl := getenv("APP_URL_FROM_ANYWHERE")
	if appUrl == "" {
		appUrl = "http://localhost:" + appPort
	}
	env := getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	requestTimeout, err := durationOr(getenv, "REQUEST_TIMEOUT", constants.DefaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	idleTimeout, err := durationOr(getenv, "SESSION_IDLE_TIMEOUT", constants.DefaultSessionIdleTimeout)
	if err != nil {
		return nil, err
	}

	hubLat, err := floatOrNil(getenv, "HUB_LATITUDE")
	if err != nil {
		return nil, err
	}
	hubLng, err := floatOrNil(getenv, "HUB_LONGITUDE")
	if err != nil {
		return nil, err
	}
	if (hubLat == nil) != (hubLng == nil) {
		return nil, fmt.Errorf("%w: HUB_LATITUDE and HUB_LONGITUDE must be set together", utils.ErrInvalidConfig)
	}

	var signingKey []byte
	if k := getenv("SESSION_SIGNING_KEY"); k != "" {
		signingKey = []byte(k)
	}

	return &Config{
		OrganizationName:   OrganizationName,
		AppName:            AppName,
		AppPort:            appPort,
		AppUrl:             appUrl,
		Env:                env,
		DataStoreURL:       dataStoreURL,
		DataStoreKey:       dataStoreKey,
		RequestTimeout:     requestTimeout,
		SessionIdleTimeout: idleTimeout,
		SessionSigningKey:  signingKey,
		HubLatitude:        hubLat,
		HubLongitude:       hubLng,

		LDFlag_CORSHighSecurity:   true,
		LDFlag_SeedDbWithTestData: false,
		LDFlag_ShowHubDistance:    true,
	}, nil
}

// IsDev reports whether cookies may go over plain http.
func (c *Config) IsDev() bool {
	return c.Env == defaultEnv || strings.HasPrefix(c.AppUrl, "http://")
}

func durationOr(getenv Getenv, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s %q is not a positive duration", utils.ErrInvalidConfig, key, v)
	}
	return d, nil
}

func floatOrNil(getenv Getenv, key string) (*float64, error) {
	v := getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a number", utils.ErrInvalidConfig, key, v)
	}
	return &f, nil
}
