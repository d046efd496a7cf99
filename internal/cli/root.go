package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"TalentScout/internal/app"
	"TalentScout/internal/config"
	"TalentScout/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:          "talentscout",
	Short:        "talentscout sources, reconciles and matches candidates for open positions",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration and builds the wired application. The caller
// owns shutdown via the returned stop function.
func bootstrap(ctx context.Context) (*app.Application, func(), error) {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	application.Start(ctx)

	stop := func() {
		if stopErr := application.Stop(context.Background()); stopErr != nil {
			logger.Error("shutdown incomplete", "error", stopErr)
		}
	}
	return application, stop, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
