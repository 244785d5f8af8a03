package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/directus-community/directus-node/internal/api"
	"github.com/directus-community/directus-node/internal/audit"
	"github.com/directus-community/directus-node/internal/config"
	"github.com/directus-community/directus-node/internal/storage"
	"github.com/directus-community/directus-node/pkg/types"
)

var (
	version    = "dev"
	configFile string
	profile    string
	verbose    bool

	// Direct credential overrides; when both are set the profile store is
	// skipped entirely.
	flagURL   string
	flagToken string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "directus-node",
	Short: "Directus workflow connector",
	Long: `A development harness for the Directus workflow connector.

It previews the dynamic field projection a workflow host would render,
executes item/user/file operations against a Directus instance, and runs a
local webhook receiver wired to a provisioned Directus flow.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env next to the working directory is convenient during development;
	// absence is not an error.
	_ = godotenv.Load()

	rootCmd.SetOut(os.Stderr)
	rootCmd.SetErr(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ~/.directus-node/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "credential profile to use (overrides config default)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Directus URL (skips the profile store)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Directus access token (skips the profile store)")
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// verboseLog prints a message only if verbose mode is enabled
func verboseLog(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// loadConfig reads the harness configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}

// resolveCredentials returns the credentials from flags, the environment, or
// the selected profile, in that order.
func resolveCredentials(cfg *config.Config) (types.Credentials, error) {
	if flagURL != "" && flagToken != "" {
		return types.Credentials{URL: flagURL, Token: flagToken}, nil
	}
	if url, token := os.Getenv("DIRECTUS_URL"), os.Getenv("DIRECTUS_TOKEN"); url != "" && token != "" {
		return types.Credentials{URL: url, Token: token}, nil
	}

	store, err := openProfileStore()
	if err != nil {
		return types.Credentials{}, err
	}
	name := profile
	if name == "" {
		name = cfg.Profiles.Default
	}
	p, err := store.Get(name)
	if err != nil {
		return types.Credentials{}, err
	}
	verboseLog("using credential profile %q", name)
	return p.Credentials, nil
}

// openProfileStore unlocks the profile store with the master password from
// the environment.
func openProfileStore() (*storage.ProfileStore, error) {
	password := os.Getenv("DIRECTUS_NODE_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("DIRECTUS_NODE_PASSWORD is not set; it unlocks the profile store")
	}
	return storage.NewProfileStore(config.ConfigDir(), password)
}

// newAuditLogger builds the audit logger from configuration. Without a
// configured file, verbose mode logs to stderr and quiet mode discards.
func newAuditLogger(cfg *config.Config) (*audit.Logger, error) {
	if cfg.Logging.File != "" {
		return audit.NewLogger(audit.Config{FilePath: cfg.Logging.File, MaxSize: cfg.Logging.MaxSize})
	}
	if verbose {
		return audit.NewWriterLogger(os.Stderr), nil
	}
	return nil, nil
}

// newClient wires credentials, transport, and audit logging into an api
// client.
func newClient(cfg *config.Config) (*api.Client, *audit.Logger, error) {
	creds, err := resolveCredentials(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newAuditLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := api.NewClient(creds, api.NewHTTPDoer(), logger)
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}
