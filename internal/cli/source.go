package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Run an external sourcing run for a job across provider connectors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetInt64("job")
		sources, _ := cmd.Flags().GetStringSlice("sources")

		application, stop, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer stop()

		result, err := application.Pipeline().SourceCandidates(cmd.Context(), jobID, sources)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Score every stored candidate against a job and promote the matches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetInt64("job")

		application, stop, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer stop()

		matched, err := application.Pipeline().MatchAllCandidates(cmd.Context(), jobID)
		if err != nil {
			return err
		}
		fmt.Printf("matched %d candidates\n", matched)
		return nil
	},
}

func init() {
	sourceCmd.Flags().Int64("job", 0, "job id to source candidates for")
	sourceCmd.Flags().StringSlice("sources", []string{"linkedin", "cvlibrary", "naukri"}, "provider names to query")
	_ = sourceCmd.MarkFlagRequired("job")

	sweepCmd.Flags().Int64("job", 0, "job id to match candidates against")
	_ = sweepCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(sourceCmd, sweepCmd)
}
