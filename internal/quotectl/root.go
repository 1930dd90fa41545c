package quotectl

import (
	"fmt"
	"os"

	"houseboat/pkg/config"
	"houseboat/pkg/engine"
	"houseboat/pkg/logger"

	"github.com/spf13/cobra"
)

const serviceName = "quotectl"

type options struct {
	json bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "quotectl",
		Short:        "Houseboat quotes from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Output JSON")

	root.AddCommand(quoteCmd(opts))
	root.AddCommand(seasonCmd(opts))
	root.AddCommand(slotsCmd(opts))
	root.AddCommand(eventsCmd(opts))
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the same environment as the quotes service. Logs go to
// stderr so that stdout stays parseable.
func loadConfig() (*config.Config, error) {
	cfg := config.FromEnv(serviceName)
	cfg.Log = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  logger.TEXT,
		Output:  os.Stderr,
		Service: serviceName,
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newEngine(cfg *config.Config) *engine.Engine {
	return engine.New(cfg.EngineConfig())
}
