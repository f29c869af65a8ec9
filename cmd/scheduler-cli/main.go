// Command scheduler-cli runs a duty-roster generation without standing
// up the HTTP server, for ops/bootstrap use.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/noah-isme/library-duty-scheduler/internal/dto"
	"github.com/noah-isme/library-duty-scheduler/internal/repository"
	"github.com/noah-isme/library-duty-scheduler/internal/service"
	"github.com/noah-isme/library-duty-scheduler/pkg/config"
	"github.com/noah-isme/library-duty-scheduler/pkg/database"
	"github.com/noah-isme/library-duty-scheduler/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scheduler-cli",
		Short: "Generate and inspect library duty schedules from the command line",
	}
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		schoolID     string
		academicYear int
		isFirstHalf  bool
		name         string
		description  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and activate a duty roster for one school, year, and half",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logr, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logr.Sync() //nolint:errcheck

			db, err := database.NewPostgres(cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			schedulerSvc := service.NewScheduleGeneratorService(
				repository.NewSchoolRepository(db),
				repository.NewMemberRepository(db),
				repository.NewLibraryRoomRepository(db),
				repository.NewScheduleRepository(db),
				nil,
				nil,
				nil,
				validator.New(),
				logr,
				service.ScheduleGeneratorConfig{Seed: cfg.Scheduler.Seed},
			)

			result, err := schedulerSvc.Generate(cmd.Context(), dto.GenerateDutyScheduleRequest{
				SchoolID:     schoolID,
				AcademicYear: academicYear,
				IsFirstHalf:  isFirstHalf,
				Name:         name,
				Description:  description,
			})
			if err != nil && result == nil {
				return err
			}

			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&schoolID, "school", "", "school id to generate for (required)")
	cmd.Flags().IntVar(&academicYear, "year", 0, "academic year (required)")
	cmd.Flags().BoolVar(&isFirstHalf, "first-half", true, "generate the first half of the year (false for second half)")
	cmd.Flags().StringVar(&name, "name", "Duty Schedule", "schedule name")
	cmd.Flags().StringVar(&description, "description", "", "schedule description")
	_ = cmd.MarkFlagRequired("school")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
