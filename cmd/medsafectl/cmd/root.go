package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/cmd/auth"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/cmd/patient"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/cmd/profile"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/cmd/report"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/cmd/user"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/client"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/config"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

var (
	envName        string
	apiURL         string
	authURL        string
	configPath     string
	bearerToken    string
	nonInteractive bool
	debug          bool
)

var rootCmd = &cobra.Command{
	Use:   "medsafectl",
	Short: "MedSafe CLI - medical reports client",
	Long: `medsafectl is the command-line client for MedSafe. Use it to search,
upload, edit and download medical reports, and to manage doctor accounts.

Every run checks the sign-in state once, in the background, and the
commands wait for that check before touching user data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv(config.EnvNonInteractive) == "1" {
			nonInteractive = true
		}
		if bearerToken == "" {
			bearerToken = os.Getenv(config.EnvToken)
		}

		logger := newLogger(debug)
		slog.SetDefault(logger)

		settings, err := resolveSettings()
		if err != nil {
			return err
		}
		logger.Debug("settings resolved", "environment", settings.Name, "api", settings.APIURL, "auth", settings.Auth.Enabled)

		provider := client.NewProvider(settings, nil, logger)
		provider.SetBearerToken(bearerToken)

		cfg := &config.GlobalConfig{
			Settings:       settings,
			NonInteractive: nonInteractive,
			Logger:         logger,
			ClientProvider: provider,
		}
		ctx := config.InjectConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		if _, skip := cmd.Annotations[config.AnnotationSkipBootstrap]; skip {
			return nil
		}
		_, err = provider.Bootstrap(ctx)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		cfg, ok := config.FromContext(cmd.Context())
		if !ok {
			return nil
		}
		return cfg.ClientProvider.Close()
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envName, "env", "", fmt.Sprintf("Environment: %s (also set via %s)", strings.Join(sdk.Environments(), ", "), config.EnvEnvironment))
	flags.StringVar(&apiURL, "api-url", "", "Override the backend API origin")
	flags.StringVar(&authURL, "auth-url", "", "Override the origin serving /.auth (defaults to the API origin)")
	flags.StringVar(&configPath, "config", "", "Settings override file (default ~/.medsafe/config.yaml)")
	flags.StringVar(&bearerToken, "token", "", "Static bearer token for scripted use (also set via "+config.EnvToken+")")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive prompts (also set via "+config.EnvNonInteractive+"=1)")
	flags.BoolVar(&debug, "debug", false, "Log diagnostics to stderr")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(report.ReportCmd)
	rootCmd.AddCommand(patient.PatientCmd)
	rootCmd.AddCommand(user.UserCmd)
	rootCmd.AddCommand(profile.ProfileCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func resolveSettings() (sdk.Settings, error) {
	path := configPath
	if path == "" {
		def, err := config.DefaultPath()
		if err != nil {
			return sdk.Settings{}, err
		}
		path = def
	}

	file, err := config.LoadFile(path)
	if err != nil {
		return sdk.Settings{}, err
	}
	if file == nil && configPath != "" {
		return sdk.Settings{}, fmt.Errorf("config file %s not found", configPath)
	}

	return config.Resolve(config.Flags{Environment: envName, APIURL: apiURL, AuthURL: authURL}, file)
}

func newLogger(debug bool) *slog.Logger {
	level := pterm.LogLevelWarn
	if debug {
		level = pterm.LogLevelDebug
	}
	return slog.New(pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(level).WithWriter(os.Stderr)))
}
