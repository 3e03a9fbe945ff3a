package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"efecto18/internal/model"
	"efecto18/internal/service"
)

func todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's bank and hourly schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				today := service.DateOf(a.tasks.Now())
				categories, err := a.tasks.Categories(ctx)
				if err != nil {
					return err
				}
				catNames := make(map[uint]string)
				for _, c := range categories {
					catNames[c.ID] = c.Name
				}

				relevant, err := a.tasks.Relevant(ctx, today)
				if err != nil {
					return err
				}
				hours, err := service.LoadWorkingHours(ctx, a.settings)
				if err != nil {
					return err
				}

				renderDay(today, relevant, catNames, hours)
				return renderTimer(ctx, a)
			})
		},
	}
}

func renderDay(today string, tasks []model.Task, catNames map[uint]string, hours service.WorkingHours) {
	bySlot := make(map[string]*model.Task)
	var bank, untimed []model.Task
	for i := range tasks {
		task := tasks[i]
		switch {
		case task.Status == model.StatusBank:
			bank = append(bank, task)
		case task.Status == model.StatusDeleted:
			// tombstones stay out of the day view
		case task.Slotted():
			bySlot[*task.TimeSlot] = &tasks[i]
		default:
			untimed = append(untimed, task)
		}
	}

	fmt.Printf("Schedule for %s\n", today)
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Slot", "Task", "Category", "Done"})
	for _, slot := range hours.Slots() {
		if task := bySlot[slot]; task != nil {
			done := ""
			if task.Status == model.StatusCompleted {
				done = "x"
			}
			tw.AppendRow(table.Row{slot, fmt.Sprintf("#%d %s", task.ID, task.Title), catNames[task.CategoryID], done})
		} else {
			tw.AppendRow(table.Row{slot, "", "", ""})
		}
	}
	tw.Render()

	if len(untimed) > 0 {
		fmt.Println("Planned, untimed:")
		for _, task := range untimed {
			fmt.Printf("  #%d %s (%s) [%s]\n", task.ID, task.Title, catNames[task.CategoryID], task.Status)
		}
	}

	fmt.Println("Task bank:")
	if len(bank) == 0 {
		fmt.Println("  (empty)")
		return
	}
	bw := table.NewWriter()
	bw.SetOutputMirror(os.Stdout)
	bw.AppendHeader(table.Row{"ID", "Task", "Category"})
	for _, task := range bank {
		bw.AppendRow(table.Row{task.ID, task.Title, catNames[task.CategoryID]})
	}
	bw.Render()
}

func renderTimer(ctx context.Context, a *app) error {
	status, err := a.timer.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Time block: %s, %s left\n", status.State, formatSeconds(status.Remaining))
	return nil
}

func formatSeconds(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func renderCategories(categories []model.Category) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Name", "Created"})
	for _, c := range categories {
		name := c.Name
		if name == "" {
			name = "(retired)"
		}
		tw.AppendRow(table.Row{c.ID, name, c.CreatedAt.Format(service.DateLayout)})
	}
	tw.Render()
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the reflection journal, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				reflections, err := a.review.Reflections(ctx)
				if err != nil {
					return err
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Date", "Reflection"})
				for _, r := range reflections {
					tw.AppendRow(table.Row{r.Date, r.Text})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "settings", Short: "Working-hours window"}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the working-hours window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				hours, err := service.LoadWorkingHours(ctx, a.settings)
				if err != nil {
					return err
				}
				fmt.Printf("working hours: %02d:00 to %02d:00 (inclusive)\n", hours.Start, hours.End)
				return nil
			})
		},
	})

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Set the working-hours window",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetInt("start")
			end, _ := cmd.Flags().GetInt("end")
			return withApp(func(ctx context.Context, a *app) error {
				if err := service.SaveWorkingHours(ctx, a.settings, service.WorkingHours{Start: start, End: end}); err != nil {
					return err
				}
				fmt.Printf("working hours set to %02d:00..%02d:00\n", start, end)
				return nil
			})
		},
	}
	setCmd.Flags().Int("start", service.DefaultStartHour, "first working hour (0-23)")
	setCmd.Flags().Int("end", service.DefaultEndHour, "last working hour (0-23)")
	cmd.AddCommand(setCmd)

	return cmd
}

func timerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "timer", Short: "Work-block countdown timer"}

	cmd.AddCommand(&cobra.Command{
		Use:   "start [seconds]",
		Short: "Start a work block",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				seconds := a.timer.DefaultSeconds
				if len(args) == 1 {
					parsed, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid duration %q", args[0])
					}
					seconds = parsed
				}
				if err := a.timer.Start(ctx, seconds); err != nil {
					return err
				}
				fmt.Printf("timer running, %s\n", formatSeconds(seconds))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the work block",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				if err := a.timer.Stop(ctx); err != nil {
					return err
				}
				fmt.Println("timer stopped")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the timer state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				return renderTimer(ctx, a)
			})
		},
	})

	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of the whole store",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return withApp(func(ctx context.Context, a *app) error {
				data, err := a.backup.ExportJSON(ctx)
				if err != nil {
					return err
				}
				if out == "" {
					out = a.backup.Filename()
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("write backup: %w", err)
				}
				fmt.Printf("backup written to %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().String("out", "", "output file (defaults to a dated name)")
	return cmd
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the whole store with a backup (destructive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read backup: %w", err)
				}
				if err := a.backup.Restore(ctx, data); err != nil {
					return err
				}
				fmt.Println("store restored")
				return nil
			})
		},
	}
}
