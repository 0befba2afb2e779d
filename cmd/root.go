// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/config"
	"github.com/xkilldash9x/hogflix-traffic/internal/observability"
	"github.com/xkilldash9x/hogflix-traffic/internal/service"
)

var (
	cfgFile string

	// componentFactory is swapped in tests.
	componentFactory = service.NewComponentFactory()

	osExit = os.Exit
)

// newRootCmd builds the command that runs one fleet of simulated sessions.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hogflix-traffic",
		Short:         "Generates realistic user traffic against the Hogflix demo application.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig()
		},
		RunE: runFleet,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// runFleet exits zero whatever the individual sessions did; only setup
// errors fail the command.
func runFleet(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.NewConfigFromViper(viper.GetViper())
	if err != nil {
		return err
	}
	observability.InitializeLogger(cfg.Logger())
	defer observability.Sync()

	logger := observability.GetLogger()
	logger.Info("Starting hogflix-traffic", zap.String("version", Version), zap.String("target", cfg.Target().BaseURL))

	components, err := componentFactory.Create(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}
	defer components.Shutdown()

	summary := components.Fleet.Run(ctx)
	logger.Info("Fleet run complete.", zap.String("run_id", summary.RunID), zap.Int("succeeded", summary.Succeeded), zap.Int("total", summary.Total))
	fmt.Fprintln(cmd.OutOrStdout(), summary.String())
	return nil
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		osExit(1)
	}
}

// initializeConfig reads the config file, if any, and HOGFLIX_* environment
// overrides on top of the defaults.
func initializeConfig() error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HOGFLIX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
