package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/punchline/attendance/internal/service"
)

// scheduleCmd groups the operator-facing CRUD/trigger surface over
// operator-defined Schedule rows, distinct from the fixed tick commands
// above (sync_logs, task, mandays, ...): a Schedule lets an operator run one
// of those same steps on its own custom cadence with a full execution
// audit trail.
func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage operator-defined task schedules",
	}
	cmd.AddCommand(scheduleListCmd(), scheduleCreateCmd(), scheduleTriggerCmd(), scheduleDeleteCmd())
	return cmd
}

func scheduleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			schedules, err := a.schedules.List(context.Background())
			if err != nil {
				return err
			}
			for _, s := range schedules {
				fmt.Printf("%s\t%s\t%s\tenabled=%v\n", s.ID, s.Name, s.TimingType, s.IsEnabled)
			}
			return nil
		},
	}
}

func scheduleCreateCmd() *cobra.Command {
	var name, timingType, taskType string
	var intervalSeconds int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a schedule running one task type on a custom cadence",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			timingConfig, _ := json.Marshal(struct {
				Interval int `json:"interval"`
			}{intervalSeconds})

			schedule, err := a.schedules.Create(context.Background(), service.CreateScheduleInput{
				Name:         name,
				TimingType:   timingType,
				TimingConfig: json.RawMessage(timingConfig),
				Tasks: []service.CreateScheduleTaskInput{
					{TaskType: taskType},
				},
			})
			if err != nil {
				return err
			}
			fmt.Printf("created schedule %s\n", schedule.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "schedule name")
	cmd.Flags().StringVar(&timingType, "timing", "minutes", "seconds|minutes|hours|daily|manual")
	cmd.Flags().StringVar(&taskType, "task", "", "sync_logs|sync_all_logs|absentees|task|mandays|correct_a_wo_a_pattern|revert_awo_corrections")
	cmd.Flags().IntVar(&intervalSeconds, "interval", 5, "interval value in the timing's own unit")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func scheduleTriggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger <schedule-id>",
		Short: "Manually run a schedule's tasks now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid schedule id: %w", err)
			}
			exec, err := a.executor.TriggerExecution(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Printf("execution %s status=%s succeeded=%d failed=%d\n",
				exec.ID, exec.Status, exec.TasksSucceeded, exec.TasksFailed)
			return nil
		},
	}
}

func scheduleDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <schedule-id>",
		Short: "Delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid schedule id: %w", err)
			}
			return a.schedules.Delete(context.Background(), id)
		},
	}
}
