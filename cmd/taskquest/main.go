package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskquest/internal/bootstrap"
	"taskquest/internal/platform/calendar"
	"taskquest/internal/platform/config"
	"taskquest/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir    string
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "taskquest",
		Short:         "Gamified to-do list narrated by a quest giver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultDir, err := config.DefaultDataDir()
	if err != nil {
		defaultDir = ".taskquest"
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", defaultDir, "directory holding records, config and logs")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <data-dir>/config.yaml)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newQuestCmd(flags))
	root.AddCommand(newScoreCmd(flags))
	root.AddCommand(newPersonaCmd(flags))
	root.AddCommand(newCalendarCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	return root
}

// loadApp wires the application. The TUI owns the terminal, so its logs go
// to the data dir instead of stderr.
func loadApp(flags *rootFlags, logToFile bool) (*bootstrap.App, func(), error) {
	cfg, err := config.New(flags.dataDir, flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	opts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if logToFile {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		opts.Path = cfg.LogPath()
	}
	log, closeLog, err := logging.New(opts)
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.New(cfg, log)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			log.Warn("close app", zap.Error(err))
		}
		closeLog()
	}
	return app, cleanup, nil
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the quest board",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, true)
			if err != nil {
				return err
			}
			defer cleanup()
			return bootstrap.RunTUI(app)
		},
	}
}

func newQuestCmd(flags *rootFlags) *cobra.Command {
	quest := &cobra.Command{Use: "quest", Short: "Quest commands"}

	var day, at string
	addCmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Summon a quest giver and turn a task into a quest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()
			if _, err := app.SessionCLI.Start(ctx, true); err != nil {
				return err
			}
			if status := app.SessionCLI.Status(); status.Error != "" {
				return fmt.Errorf("%s", status.Error)
			}
			task, err := app.SessionCLI.AddTask(ctx, strings.Join(args, " "), day, at)
			if err != nil {
				if status := app.SessionCLI.Status(); status.Error != "" {
					return fmt.Errorf("%s: %w", status.Error, err)
				}
				return err
			}
			persona, _ := app.SessionCLI.Persona()
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s (%d pts) due %s\n", task.Description, task.Points, task.DueDate.Format("2006-01-02 15:04"))
			_, _ = fmt.Fprintf(out, "id: %s\n\n%s says:\n%s\n", task.ID, persona.Name, task.Story)
			return nil
		},
	}
	addCmd.Flags().StringVar(&day, "day", "", "due day YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&at, "at", "", "due time HH:MM")
	_ = addCmd.MarkFlagRequired("at")

	doneCmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a quest and collect its points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()
			if _, err := app.SessionCLI.Start(ctx, false); err != nil {
				return err
			}
			out, err := app.SessionCLI.CompleteTask(ctx, args[0])
			if err != nil {
				return err
			}
			if out.Earned == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: nothing earned (unknown or already completed)\n", args[0])
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "+%d pts, today %d\n", out.Earned, out.TodayTotal)
			return nil
		},
	}

	var listDay string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List quests due on a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()
			if _, err := app.SessionCLI.Start(ctx, false); err != nil {
				return err
			}
			tasks, err := app.SessionCLI.TasksForDay(ctx, listDay)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				_, _ = fmt.Fprintln(out, "no quests")
				return nil
			}
			for _, task := range tasks {
				mark := " "
				if task.Completed {
					mark = "x"
				}
				_, _ = fmt.Fprintf(out, "[%s] %s %-4d %s  (%s)\n", mark, task.DueDate.Format("15:04"), task.Points, task.Description, task.ID)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&listDay, "day", "", "day YYYY-MM-DD (default today)")

	quest.AddCommand(addCmd, doneCmd, listCmd)
	return quest
}

func newScoreCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Show today's points, the high score and recent days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()
			started, err := app.SessionCLI.Start(ctx, false)
			if err != nil {
				return err
			}
			recent, err := app.SessionCLI.LeaderboardRecent(ctx, app.Config.Leaderboard.RecentDays)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "today: %d pts\nhigh score: %d pts\n", started.Points, started.HighScore)
			for _, entry := range recent {
				crown := ""
				if entry.IsHighScore {
					crown = " *"
				}
				_, _ = fmt.Fprintf(out, "  %-14s %5d%s\n", entry.Label, entry.Points, crown)
			}
			return nil
		},
	}
}

func newPersonaCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "persona",
		Short: "Summon a quest giver and introduce them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()
			if _, err := app.SessionCLI.Start(ctx, false); err != nil {
				return err
			}
			persona, err := app.SessionCLI.Summon(ctx)
			if err != nil {
				if status := app.SessionCLI.Status(); status.Error != "" {
					return fmt.Errorf("%s: %w", status.Error, err)
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", persona.Name, persona.Description)
			return nil
		},
	}
}

func newCalendarCmd(flags *rootFlags) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month with quest counts per day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()
			if _, err := app.SessionCLI.Start(ctx, false); err != nil {
				return err
			}
			first := time.Now()
			if month != "" {
				first, err = calendar.ParseMonth(month, time.Local)
				if err != nil {
					return err
				}
			}
			grid, err := app.SessionCLI.Calendar(ctx, first)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, grid.Title)
			var header strings.Builder
			for _, wd := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
				fmt.Fprintf(&header, "%3s  ", wd)
			}
			_, _ = fmt.Fprintln(out, strings.TrimRight(header.String(), " "))
			for _, week := range grid.Weeks {
				var line strings.Builder
				for _, cell := range week {
					switch {
					case cell.Key == "":
						line.WriteString("     ")
					case cell.TaskCount > 0:
						fmt.Fprintf(&line, "%3d%-2s", cell.Day, strings.Repeat("•", min(cell.TaskCount, 2)))
					default:
						fmt.Fprintf(&line, "%3d  ", cell.Day)
					}
				}
				_, _ = fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month YYYY-MM (default current)")
	return cmd
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration commands"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a starter config.yaml into the data dir",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(flags.dataDir, flags.configPath)
			if err != nil {
				return err
			}
			path, err := config.WriteStarter(cfg)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	return cfgCmd
}
