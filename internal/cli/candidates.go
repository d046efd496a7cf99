package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"TalentScout/internal/domain"
	"TalentScout/internal/ports"
	"TalentScout/internal/usecase"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a direct applicant, optionally storing a resume for background enrichment",
	RunE: func(cmd *cobra.Command, _ []string) error {
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		resume, _ := cmd.Flags().GetString("resume")

		application, stop, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer stop()

		in := usecase.ApplicantInput{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Phone:     phone,
		}

		if resume != "" {
			f, openErr := os.Open(resume)
			if openErr != nil {
				return fmt.Errorf("open resume: %w", openErr)
			}
			stored, saveErr := application.Store().Save(filepath.Base(resume), f)
			f.Close()
			if saveErr != nil {
				return saveErr
			}
			in.ResumePath = stored
			in.ResumeType = filepath.Ext(resume)
		}

		candidate, err := application.Pipeline().RegisterApplicant(cmd.Context(), in)
		if err != nil {
			return err
		}
		return printJSON(candidate)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored candidates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sourceName, _ := cmd.Flags().GetString("source")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		application, stop, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer stop()

		candidates, err := application.Pipeline().ListCandidates(cmd.Context(), ports.CandidateFilter{
			Source: sourceName,
			Status: domain.CandidateStatus(status),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		return printJSON(candidates)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Move a candidate to another hiring-funnel status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		candidateID, _ := cmd.Flags().GetInt64("candidate")
		status, _ := cmd.Flags().GetString("to")

		application, stop, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer stop()

		candidate, err := application.Pipeline().UpdateCandidateStatus(cmd.Context(),
			candidateID, domain.CandidateStatus(status))
		if err != nil {
			return err
		}
		return printJSON(candidate)
	},
}

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Email an interview invitation and mark the candidate contacted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		candidateID, _ := cmd.Flags().GetInt64("candidate")
		jobID, _ := cmd.Flags().GetInt64("job")

		application, stop, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer stop()

		if err := application.Pipeline().ContactCandidate(cmd.Context(), candidateID, jobID); err != nil {
			return err
		}
		fmt.Println("invitation sent")
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Email an interview slot and mark the candidate interview_scheduled",
	RunE: func(cmd *cobra.Command, _ []string) error {
		candidateID, _ := cmd.Flags().GetInt64("candidate")
		jobID, _ := cmd.Flags().GetInt64("job")
		at, _ := cmd.Flags().GetString("at")

		when, err := time.Parse("2006-01-02T15:04", at)
		if err != nil {
			return fmt.Errorf("parse --at %q (want YYYY-MM-DDTHH:MM): %w", at, err)
		}

		application, stop, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer stop()

		if err := application.Pipeline().ScheduleInterview(cmd.Context(), candidateID, when, jobID); err != nil {
			return err
		}
		fmt.Println("interview scheduled")
		return nil
	},
}

func init() {
	registerCmd.Flags().String("first-name", "", "applicant first name")
	registerCmd.Flags().String("last-name", "", "applicant last name")
	registerCmd.Flags().String("email", "", "applicant email")
	registerCmd.Flags().String("phone", "", "applicant phone")
	registerCmd.Flags().String("resume", "", "path to a resume document (pdf, docx, txt, ...)")
	_ = registerCmd.MarkFlagRequired("email")

	listCmd.Flags().String("source", "", "filter by source tag (linkedin, cvlibrary, naukri, applied)")
	listCmd.Flags().String("status", "", "filter by candidate status")
	listCmd.Flags().Int("limit", 50, "page size")
	listCmd.Flags().Int("offset", 0, "page offset")

	statusCmd.Flags().Int64("candidate", 0, "candidate id")
	statusCmd.Flags().String("to", "", "target status (new, contacted, interview_scheduled, rejected, hired)")
	_ = statusCmd.MarkFlagRequired("candidate")
	_ = statusCmd.MarkFlagRequired("to")

	contactCmd.Flags().Int64("candidate", 0, "candidate id")
	contactCmd.Flags().Int64("job", 0, "job id for the invitation context (optional)")
	_ = contactCmd.MarkFlagRequired("candidate")

	scheduleCmd.Flags().Int64("candidate", 0, "candidate id")
	scheduleCmd.Flags().Int64("job", 0, "job id for the invitation context (optional)")
	scheduleCmd.Flags().String("at", "", "interview slot, YYYY-MM-DDTHH:MM")
	_ = scheduleCmd.MarkFlagRequired("candidate")
	_ = scheduleCmd.MarkFlagRequired("at")

	rootCmd.AddCommand(registerCmd, listCmd, statusCmd, contactCmd, scheduleCmd)
}
