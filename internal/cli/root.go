// Package cli defines the interviewctl commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/futig/interview-backend/internal/builder"
	"github.com/futig/interview-backend/internal/config"
	"github.com/spf13/cobra"
)

var (
	environment string
	useMocks    bool
	verbose     bool
	version     = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "interviewctl",
	Short: "Mock interview sessions from the terminal",
	Long: `interviewctl runs a mock interview in the terminal against the same
question, analysis and report services as the HTTP backend, and inspects
stored reports and progress.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&environment, "env", "local", "Environment to load (local, prod, or custom)")
	rootCmd.PersistentFlags().BoolVar(&useMocks, "mock", false, "Use mock question, analysis and speech services")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Keep service logs on stderr")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(progressCmd)
}

// loadCore builds the interview core for a command
func loadCore(ctx context.Context) (*builder.Core, error) {
	cfg, err := config.Load(environment)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if useMocks {
		cfg.EnableMocks = true
	}
	if !verbose {
		// the terminal belongs to the interview
		cfg.LogLevel = "error"
	}

	return builder.BuildCore(ctx, cfg)
}
