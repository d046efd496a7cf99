package cli

import (
	"github.com/spf13/cobra"

	"TalentScout/internal/domain"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage open positions",
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an open position",
	RunE: func(cmd *cobra.Command, _ []string) error {
		job := jobFromFlags(cmd)

		application, stop, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer stop()

		created, err := application.Pipeline().CreateJob(cmd.Context(), job)
		if err != nil {
			return err
		}
		return printJSON(created)
	},
}

var jobUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update an existing position",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetInt64("id")

		application, stop, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer stop()

		job, err := application.Pipeline().GetJob(cmd.Context(), jobID)
		if err != nil {
			return err
		}
		overlayJobFlags(cmd, job)

		if err := application.Pipeline().UpdateJob(cmd.Context(), job); err != nil {
			return err
		}
		return printJSON(job)
	},
}

func jobFromFlags(cmd *cobra.Command) *domain.Job {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	requirements, _ := cmd.Flags().GetString("requirements")
	location, _ := cmd.Flags().GetString("location")
	jobType, _ := cmd.Flags().GetString("type")
	return &domain.Job{
		Title:        title,
		Description:  description,
		Requirements: requirements,
		Location:     location,
		JobType:      jobType,
	}
}

// overlayJobFlags applies only the flags the caller explicitly set, so an
// update touches nothing else.
func overlayJobFlags(cmd *cobra.Command, job *domain.Job) {
	if cmd.Flags().Changed("title") {
		job.Title, _ = cmd.Flags().GetString("title")
	}
	if cmd.Flags().Changed("description") {
		job.Description, _ = cmd.Flags().GetString("description")
	}
	if cmd.Flags().Changed("requirements") {
		job.Requirements, _ = cmd.Flags().GetString("requirements")
	}
	if cmd.Flags().Changed("location") {
		job.Location, _ = cmd.Flags().GetString("location")
	}
	if cmd.Flags().Changed("type") {
		job.JobType, _ = cmd.Flags().GetString("type")
	}
}

func jobFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "position title")
	cmd.Flags().String("description", "", "position description")
	cmd.Flags().String("requirements", "", "comma-separated requirements used for provider keywords")
	cmd.Flags().String("location", "", "position location")
	cmd.Flags().String("type", "full-time", "employment type")
}

func init() {
	jobFlags(jobCreateCmd)
	_ = jobCreateCmd.MarkFlagRequired("title")

	jobFlags(jobUpdateCmd)
	jobUpdateCmd.Flags().Int64("id", 0, "job id")
	_ = jobUpdateCmd.MarkFlagRequired("id")

	jobCmd.AddCommand(jobCreateCmd, jobUpdateCmd)
	rootCmd.AddCommand(jobCmd)
}
