// Package cli provides the paygrade command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
	"github.com/custodia-labs/paygrade/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services holds the driving ports the commands run against.
type Services struct {
	Settings driving.SettingsService
	Pipeline driving.Pipeline

	// Watcher reloads prompts while serving. May be nil.
	Watcher PromptWatcher
}

// PromptWatcher blocks until ctx is done, reloading prompts as they change.
type PromptWatcher interface {
	Watch(ctx context.Context) error
}

// Options are the global flags handed to a Builder.
type Options struct {
	// ConfigDir overrides the default configuration directory.
	ConfigDir string
}

// Builder constructs Services once global flags are parsed.
type Builder func(opts Options) (*Services, error)

var (
	verbose   bool
	configDir string
	envFile   string

	builder      Builder
	services     *Services
	servicesErr  error
	servicesOnce sync.Once
)

var rootCmd = &cobra.Command{
	Use:   "paygrade",
	Short: "Grounded compensation answers from LeetCode discussions",
	Long: `Paygrade harvests compensation posts from LeetCode discussions, indexes
them with embeddings, and answers questions with structured compensation
records and links back to the source posts.

Typical flow:
  paygrade harvest
  paygrade index
  paygrade query "Amazon SDE2 compensation in Seattle"`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return loadEnv(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.paygrade)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with provider API keys")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. build is called lazily by the commands
// that need services.
func Execute(ctx context.Context, build Builder) error {
	builder = build
	return rootCmd.ExecuteContext(ctx)
}

// loadEnv loads a dotenv file into the process environment.
// A missing file is not an error; variables already set win.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("Loaded environment from %s", path)
	return nil
}

// activeServices builds the services on first use.
func activeServices() (*Services, error) {
	servicesOnce.Do(func() {
		if services != nil {
			return
		}
		if builder == nil {
			servicesErr = errors.New("services not configured")
			return
		}
		services, servicesErr = builder(Options{ConfigDir: configDir})
	})
	if servicesErr != nil {
		return nil, servicesErr
	}
	return services, nil
}

func settingsSvc() (driving.SettingsService, error) {
	svc, err := activeServices()
	if err != nil {
		return nil, err
	}
	if svc.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return svc.Settings, nil
}

func pipelineSvc() (driving.Pipeline, error) {
	svc, err := activeServices()
	if err != nil {
		return nil, err
	}
	if svc.Pipeline == nil {
		return nil, errors.New("pipeline not configured")
	}
	return svc.Pipeline, nil
}
