package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/staffrate/staffrate/internal/gateway"
	"github.com/staffrate/staffrate/internal/logger"
	"github.com/staffrate/staffrate/internal/notify"
	"github.com/staffrate/staffrate/internal/resource"
	"github.com/staffrate/staffrate/internal/session"
)

const defaultAPIURL = "http://localhost:5000/api"

type Globals struct {
	Debug    bool
	Version  string
	APIURL   string
	StateDir string
	NoCache  bool
}

// fileConfig is the optional ~/.staffrate/config.yaml. Flags and environment
// take precedence over it.
type fileConfig struct {
	APIURL   string `yaml:"api_url"`
	StateDir string `yaml:"state_dir"`
}

func loadFileConfig() fileConfig {
	var cfg fileConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}

	data, err := os.ReadFile(filepath.Join(home, ".staffrate", "config.yaml"))
	if err != nil {
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		zlog.Warn().Err(err).Msg("ignoring malformed config file")
		return fileConfig{}
	}

	return cfg
}

// console bundles the wired client layer for a command invocation.
type console struct {
	logger    zerolog.Logger
	notifier  notify.Notifier
	session   *session.Store
	gateway   *gateway.Gateway
	employees *resource.EmployeeClient
	roles     *resource.RoleClient
	ratings   *resource.RatingClient
}

// setup wires the session store, gateway, and resource clients, then restores
// any persisted session. Initialization order is explicit: the store is the
// leaf, the gateway holds a reference to it, the clients depend only on the
// gateway's call contract.
func setup(ctx context.Context, globals *Globals) (*console, error) {
	lg := logger.Setup(globals.Debug)
	zlog.Logger = lg

	cfg := loadFileConfig()

	apiURL := globals.APIURL
	if apiURL == "" {
		apiURL = cfg.APIURL
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	stateDir := globals.StateDir
	if stateDir == "" {
		stateDir = cfg.StateDir
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	var transport http.RoundTripper
	if !globals.NoCache {
		transport = gateway.NewCachingTransport("")
	}

	httpClient := &http.Client{
		Jar:       jar,
		Transport: logger.NewHTTPRequests(lg, transport),
		Timeout:   30 * time.Second,
	}

	notifier := notify.NewLogger(lg)

	sess, err := session.NewStore(apiURL, httpClient, notifier, stateDir)
	if err != nil {
		return nil, err
	}

	gw := gateway.New(apiURL, httpClient, sess)

	if err := sess.Restore(ctx, gw); err != nil {
		return nil, err
	}

	redirect := func() {
		lg.Warn().Msg("session expired, run `staffrate-cli login`")
	}

	return &console{
		logger:    lg,
		notifier:  notifier,
		session:   sess,
		gateway:   gw,
		employees: resource.NewEmployeeClient(gw, notifier, resource.WithAuthRedirect(redirect)),
		roles:     resource.NewRoleClient(gw, notifier, resource.WithAuthRedirect(redirect)),
		ratings:   resource.NewRatingClient(gw, notifier, resource.WithAuthRedirect(redirect)),
	}, nil
}

// requireAuth fails fast when no session could be restored, before any
// resource call goes out.
func (c *console) requireAuth() error {
	if err := c.session.RequireAuthenticated(); err != nil {
		return fmt.Errorf("%w, run `staffrate-cli login` first", err)
	}
	return nil
}
