package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"efecto18/internal/model"
	"efecto18/internal/service"
)

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Run the three-phase evening review",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				return runReview(ctx, a, bufio.NewScanner(os.Stdin))
			})
		},
	}
}

// runReview walks acknowledge, triage, reflect. Every answer writes through
// the store immediately, so a review broken off mid-way resumes there.
func runReview(ctx context.Context, a *app, in *bufio.Scanner) error {
	today := a.review.Today()
	fmt.Printf("Evening review for %s\n\n", today)

	// Phase 1: acknowledge wins.
	fmt.Println("1/3 Acknowledge. Toggle an id, or press enter to continue.")
	for {
		scheduled, err := a.review.ScheduledToday(ctx)
		if err != nil {
			return err
		}
		if len(scheduled) == 0 {
			fmt.Println("  nothing was scheduled today")
			break
		}
		for _, task := range scheduled {
			mark := " "
			if task.Status == model.StatusCompleted {
				mark = "x"
			}
			fmt.Printf("  [%s] #%d %s (%s)\n", mark, task.ID, task.Title, *task.TimeSlot)
		}
		line, ok := prompt(in, "toggle> ")
		if !ok || line == "" {
			break
		}
		id, err := parseID(line)
		if err != nil {
			fmt.Println(" ", err)
			continue
		}
		if _, err := a.review.Acknowledge(ctx, id); err != nil {
			fmt.Println(" ", err)
		}
	}

	// Phase 2: triage. Advancing with unresolved tasks is allowed.
	fmt.Println("\n2/3 Close cycles. Unfinished tasks: keep for tomorrow or discard.")
	unresolved, err := a.review.Unresolved(ctx)
	if err != nil {
		return err
	}
	for _, task := range unresolved {
		answer, ok := prompt(in, fmt.Sprintf("  #%d %s — [t]omorrow / [d]iscard / [s]kip: ", task.ID, task.Title))
		if !ok {
			break
		}
		switch strings.ToLower(answer) {
		case "t":
			if _, err := a.review.Resolve(ctx, task.ID, true); err != nil {
				fmt.Println(" ", err)
			}
		case "d":
			if _, err := a.review.Resolve(ctx, task.ID, false); err != nil {
				fmt.Println(" ", err)
			}
		default:
			// left unresolved on purpose
		}
	}

	// Phase 3: reflect. Completing this closes the day.
	fmt.Println("\n3/3 Reflection. What did today teach you?")
	for {
		text, ok := prompt(in, "> ")
		if !ok {
			return fmt.Errorf("review aborted before reflection")
		}
		if err := a.review.RecordReflection(ctx, today, text); err != nil {
			fmt.Println(" ", err)
			continue
		}
		break
	}
	fmt.Println("Day closed. Rest well.")
	return nil
}

func prompt(in *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the sentinel and timer loops until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := openApp()
			if err != nil {
				return err
			}
			defer closeFn()
			return runWatch(a)
		},
	}
}

func runWatch(a *app) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sentinel := service.NewSentinel(a.taskRepo, a.settings, a.notifier)
	sentinel.OnInterrupt = func(interruption service.Interruption) {
		fmt.Printf("\n-- %02d:00 -- Are you focused?\n", interruption.Hour)
		if interruption.Task != nil {
			fmt.Printf("   You agreed to do: %s\n", interruption.Task.Title)
		} else {
			fmt.Println("   No task is scheduled for this hour.")
		}
		fmt.Println("   Answer y (focused) or n (distracted).")
	}
	sentinel.OnResolve = func(focused bool) {
		if focused {
			fmt.Println("Good. Back to it.")
			return
		}
		// Pause ritual: a short enforced cooldown before re-engaging.
		fmt.Println("Pause. Stand up, breathe, come back in two minutes.")
	}

	// Independent loops: each scheduler stops on its own.
	sentinelLoop := service.NewSchedulerService(time.Local)
	if _, err := sentinelLoop.ScheduleInterval(a.cfg.SentinelPoll, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := sentinel.Check(jobCtx); err != nil {
			log.Printf("sentinel: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule sentinel: %w", err)
	}

	timerLoop := service.NewSchedulerService(time.Local)
	wasRunning := false
	if _, err := timerLoop.ScheduleInterval(a.cfg.TimerPoll, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		status, err := a.timer.Status(jobCtx)
		if err != nil {
			log.Printf("timer: %v", err)
			return
		}
		if wasRunning && status.State == service.TimerStopped {
			fmt.Println("\nTime block finished.")
		}
		wasRunning = status.State == service.TimerRunning
	}); err != nil {
		return fmt.Errorf("schedule timer: %w", err)
	}

	if a.cfg.ReviewReminderTime != "" {
		if _, err := sentinelLoop.ScheduleDaily(a.cfg.ReviewReminderTime, func() {
			fmt.Println("\nTime to close your day: run `efecto18 review`.")
			if err := a.notifier.Notify("Evening review", "Time to close your day."); err != nil {
				log.Printf("review reminder notification: %v", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule review reminder: %w", err)
		}
	}

	sentinelLoop.Start()
	defer sentinelLoop.Stop()
	timerLoop.Start()
	defer timerLoop.Stop()

	log.Println("Watching. Answer sentinel prompts with y/n; q quits.")

	answers := make(chan string)
	go func() {
		in := bufio.NewScanner(os.Stdin)
		for in.Scan() {
			answers <- strings.TrimSpace(strings.ToLower(in.Text()))
		}
		close(answers)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutdown complete.")
			return nil
		case answer, ok := <-answers:
			if !ok || answer == "q" {
				log.Println("Shutdown complete.")
				return nil
			}
			var err error
			switch answer {
			case "y":
				err = sentinel.ConfirmFocused()
			case "n":
				err = sentinel.ConfirmDistracted()
			default:
				continue
			}
			if err != nil {
				fmt.Println(err)
			}
		}
	}
}
