// Package cli implements homesctl, the admin command line client for the
// listings backend. It shares the API client, services and session type with
// the web front; the session lives in a JSON file instead of a cookie.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/service"
	"github.com/vbonduro/urbanhomes/internal/session"
)

var (
	// ErrSessionExpired is returned when the backend rejects the stored token.
	// The session file has already been cleared.
	ErrSessionExpired = errors.New("session expired: run homesctl login")
	ErrNotLoggedIn    = errors.New("not logged in: run homesctl login")
)

type app struct {
	v         *viper.Viper
	sess      *session.Session
	api       *apiclient.Client
	auth      *service.AuthService
	props     *service.PropertyService
	inquiries *service.InquiryService
}

// NewRootCommand builds the homesctl command tree. Each call has its own
// viper instance so commands can be built and run repeatedly in one process.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "homesctl",
		Short: "Manage property listings and contact inquiries",
		Long: `homesctl signs in to the listings backend and manages properties,
their images and contact inquiries from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.config/homesctl/config.yaml)")
	flags.String("api-url", "http://localhost:5000", "backend base URL")
	flags.String("session-file", filepath.Join(configDir(), "session.json"), "where the login session is kept")
	for _, name := range []string{"config", "api-url", "session-file"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}
	a.v.SetEnvPrefix("HOMESCTL")
	// e.g. HOMESCTL_API_URL for api-url
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.registerCmd(),
		a.propertiesCmd(),
		a.inquiriesCmd(),
	)
	return root
}

func (a *app) init() error {
	if cfg := a.v.GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfg, err)
		}
	} else {
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(configDir())
		// Missing config file is fine; flags and env cover everything.
		_ = a.v.ReadInConfig()
	}

	a.sess = session.New(session.NewFileBackend(a.v.GetString("session-file")))
	if err := a.sess.Rehydrate(); err != nil {
		return err
	}
	a.api = apiclient.New(a.v.GetString("api-url"), apiclient.WithTokenSource(apiclient.TokenFunc(a.sess.Token)))
	a.auth = service.NewAuthService(a.api)
	a.props = service.NewPropertyService(a.api)
	a.inquiries = service.NewInquiryService(a.api)
	return nil
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "homesctl")
	}
	return ".homesctl"
}

// check turns a 401 from the backend into ErrSessionExpired after clearing
// the stored session. Other errors pass through.
func (a *app) check(err error) error {
	if err == nil {
		return nil
	}
	if apiclient.Classify(err) != apiclient.OutcomeAuthExpired {
		return err
	}
	if lerr := a.sess.Logout(); lerr != nil {
		return errors.Join(ErrSessionExpired, lerr)
	}
	return ErrSessionExpired
}

func (a *app) requireLogin() error {
	if !a.sess.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return nil
}
