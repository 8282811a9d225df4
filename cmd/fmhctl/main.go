// Command fmhctl runs the Fantasy Manager Hub backend calls from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/riskibarqy/fantasy-manager-hub/external/fmhapi"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
)

const (
	flagAPIBaseURL = "api-base-url"
	flagTimeout    = "timeout"
	flagOutput     = "output"
	flagLogLevel   = "log-level"
	flagConfig     = "config"

	outputTable = "table"
	outputJSON  = "json"
)

type cli struct {
	v *viper.Viper
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:          "fmhctl",
		Short:        "Query the Fantasy Manager Hub backend",
		Long:         `Runs the search, trade simulation and trending calls the web front end makes, and prints the answers as tables or JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.String(flagAPIBaseURL, "http://127.0.0.1:8000", "Backend base URL (or set FMH_API_BASE_URL)")
	flags.Duration(flagTimeout, 15*time.Second, "Request timeout")
	flags.StringP(flagOutput, "o", outputTable, "Output format: table or json")
	flags.String(flagLogLevel, "warn", "Log level for client diagnostics on stderr")
	flags.String(flagConfig, "", "Optional YAML config file")

	c.v.SetEnvPrefix("FMH")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	_ = c.v.BindPFlags(flags)

	root.AddCommand(
		c.welcomeCmd(),
		c.searchCmd(),
		c.simulateCmd(),
		c.trendingCmd(),
		c.moversCmd(),
		c.positionsCmd(),
		c.teamsCmd(),
	)

	return root
}

func (c *cli) loadConfig() error {
	if path := strings.TrimSpace(c.v.GetString(flagConfig)); path != "" {
		c.v.SetConfigFile(path)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	switch c.output() {
	case outputTable, outputJSON:
	default:
		return fmt.Errorf("invalid output %q: valid values are %s, %s", c.v.GetString(flagOutput), outputTable, outputJSON)
	}
	if c.v.GetDuration(flagTimeout) <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	return nil
}

func (c *cli) output() string {
	return strings.ToLower(strings.TrimSpace(c.v.GetString(flagOutput)))
}

func (c *cli) client(cmd *cobra.Command) *fmhapi.Client {
	logger := logging.New(logging.ParseLevel(c.v.GetString(flagLogLevel)), cmd.ErrOrStderr())
	return fmhapi.NewClient(fmhapi.ClientConfig{
		BaseURL: c.v.GetString(flagAPIBaseURL),
		Timeout: c.v.GetDuration(flagTimeout),
		Logger:  logger,
	})
}

func (c *cli) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, c.v.GetDuration(flagTimeout))
}
