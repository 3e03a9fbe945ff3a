package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"efecto18/internal/config"
	"efecto18/internal/notify"
	"efecto18/internal/repository"
	"efecto18/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "efecto18",
	Short: "Daily focus planner",
	Long: `Efecto 18 is a single-user daily focus planner.
Bank tasks under up to five life categories, schedule them into hourly
slots, let the sentinel interrupt you at each working hour, and close the
day with an evening review and reflection.`,
	SilenceUsage: true,
}

func main() {
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func registerCommands() {
	rootCmd.AddCommand(categoryCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(todayCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(settingsCmd())
	rootCmd.AddCommand(timerCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(restoreCmd())
	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(watchCmd())
}

// app bundles the wired-up core for one CLI invocation.
type app struct {
	cfg      config.Config
	db       *gorm.DB
	settings *repository.SettingRepository
	taskRepo *repository.TaskRepository
	tasks    *service.TaskService
	review   *service.ReviewService
	backup   *service.BackupService
	timer    *service.CountdownTimer
	notifier notify.Notifier
}

func openApp() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	// Store-open failure is fatal: nothing works without it.
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reflectionRepo := repository.NewReflectionRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	tasks := service.NewTaskService(taskRepo, categoryRepo)
	review := service.NewReviewService(tasks, reflectionRepo)
	backup := service.NewBackupService(db, categoryRepo, taskRepo, reflectionRepo)
	timer := service.NewCountdownTimer(settingRepo)
	timer.DefaultSeconds = cfg.TimerDefaultSeconds

	var notifier notify.Notifier = notify.Nop{}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			// Alerts are best-effort; a dead channel never stops the planner.
			log.Printf("telegram channel disabled: %v", err)
		} else {
			notifier = tg
		}
	}

	return &app{
		cfg:      cfg,
		db:       db,
		settings: settingRepo,
		taskRepo: taskRepo,
		tasks:    tasks,
		review:   review,
		backup:   backup,
		timer:    timer,
		notifier: notifier,
	}, closeFn, nil
}

func withApp(fn func(ctx context.Context, a *app) error) error {
	a, closeFn, err := openApp()
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(context.Background(), a)
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return uint(id), nil
}

func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "category", Short: "Manage the five focus categories"}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a focus category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				category, err := a.tasks.CreateCategory(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("category %d: %s\n", category.ID, category.Name)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a focus category (empty name retires it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				category, err := a.tasks.RenameCategory(ctx, id, args[1])
				if err != nil {
					return err
				}
				fmt.Printf("category %d: %s\n", category.ID, category.Name)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List focus categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				categories, err := a.tasks.Categories(ctx)
				if err != nil {
					return err
				}
				renderCategories(categories)
				return nil
			})
		},
	})

	return cmd
}

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "task", Short: "Manage tasks"}

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Bank a new task under a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, _ := cmd.Flags().GetUint("category")
			return withApp(func(ctx context.Context, a *app) error {
				task, err := a.tasks.CreateTask(ctx, args[0], categoryID)
				if err != nil {
					return err
				}
				fmt.Printf("task %d banked: %s\n", task.ID, task.Title)
				return nil
			})
		},
	}
	addCmd.Flags().Uint("category", 0, "category id")
	_ = addCmd.MarkFlagRequired("category")
	cmd.AddCommand(addCmd)

	planCmd := &cobra.Command{
		Use:   "plan <id>",
		Short: "Plan a task for a date, optionally into an hourly slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			slot, _ := cmd.Flags().GetString("slot")
			return withApp(func(ctx context.Context, a *app) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if date == "" {
					date = service.DateOf(a.tasks.Now())
				}
				var slotPtr *string
				if slot != "" {
					slotPtr = &slot
				}
				task, err := a.tasks.AssignToSlot(ctx, id, date, slotPtr)
				if err != nil {
					return err
				}
				if task.Slotted() {
					fmt.Printf("task %d planned for %s at %s\n", task.ID, *task.PlannedDate, *task.TimeSlot)
				} else {
					fmt.Printf("task %d planned for %s (untimed)\n", task.ID, *task.PlannedDate)
				}
				return nil
			})
		},
	}
	planCmd.Flags().String("date", "", "date (YYYY-MM-DD), defaults to today")
	planCmd.Flags().String("slot", "", "hourly slot (HH:00)")
	cmd.AddCommand(planCmd)

	cmd.AddCommand(taskActionCmd("bank", "Return a task to the bank", func(ctx context.Context, a *app, id uint) error {
		task, err := a.tasks.ReturnToBank(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("task %d returned to bank\n", task.ID)
		return nil
	}))
	cmd.AddCommand(taskActionCmd("done", "Toggle a task's completion", func(ctx context.Context, a *app, id uint) error {
		task, err := a.tasks.ToggleCompletion(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("task %d is now %s\n", task.ID, task.Status)
		return nil
	}))
	cmd.AddCommand(taskActionCmd("tomorrow", "Carry a task planned for today to tomorrow", func(ctx context.Context, a *app, id uint) error {
		task, err := a.tasks.MoveToTomorrow(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("task %d moved to %s\n", task.ID, *task.PlannedDate)
		return nil
	}))
	cmd.AddCommand(taskActionCmd("discard", "Discard a task (irreversible)", func(ctx context.Context, a *app, id uint) error {
		task, err := a.tasks.Discard(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("task %d discarded\n", task.ID)
		return nil
	}))

	return cmd
}

func taskActionCmd(use, short string, action func(ctx context.Context, a *app, id uint) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return action(ctx, a, id)
			})
		},
	}
}
