// Package cli реализует консольный клиент поверх TaskService.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/config"
	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
	"github.com/BuzzLyutic/task-tracker/internal/service"
	"github.com/BuzzLyutic/task-tracker/internal/storage"
)

var ErrTaskNotFound = errors.New("task not found")

// Version is set via ldflags at build time.
var Version = "dev"

type app struct {
	configPath string
	dbPath     string
	searchMode string
	verbose    bool

	logger  *zap.Logger
	db      *storage.DB
	service *service.TaskService
}

// Run выполняет команду и возвращает код выхода (0 ok, 1 ошибка, 2 неверный ввод).
// База закрывается на любом пути выхода.
func Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	a := &app{}
	defer a.close()

	cmd := a.newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		if errors.Is(err, service.ErrInvalidInput) {
			return 2
		}
		return 1
	}
	return 0
}

func (a *app) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tasks",
		Short:         "tasks - a tiny task tracker backed by a SQLite file",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.open(cmd.Context())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to TOML config file")
	flags.StringVar(&a.dbPath, "db", "", "path to the database file (overrides config)")
	flags.StringVar(&a.searchMode, "search-mode", "", "search case mode: insensitive or sensitive (overrides config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log storage events to stderr")

	cmd.AddCommand(
		a.newAddCommand(),
		a.newListCommand(),
		a.newDoneCommand(),
		a.newSearchCommand(),
		a.newStatsCommand(),
	)

	return cmd
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DatabasePath = a.dbPath
	}
	if a.searchMode != "" {
		cfg.SearchMode = a.searchMode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.logger = zap.NewNop()
	if a.verbose {
		if a.logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}

	a.db, err = storage.Open(ctx, cfg.DatabasePath, a.logger)
	if err != nil {
		return err
	}
	if err := a.db.EnsureSchema(ctx); err != nil {
		a.db.Close()
		return err
	}

	a.service = service.NewTaskService(repo.NewTaskRepo(a.db), repo.ParseSearchMode(cfg.SearchMode))
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	a.logger.Sync()
	return err
}

func (a *app) newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new task (title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.service.Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", task.ID, task.Title)
			return nil
		},
	}
}

func (a *app) newListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := service.ParseStatus(status)
			if err != nil {
				return err
			}
			tasks, err := a.service.List(cmd.Context(), model.TaskFilter{Status: st})
			if err != nil {
				return err
			}
			return printTasks(cmd.OutOrStdout(), tasks)
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only tasks with this status (OPEN or DONE)")

	return cmd
}

func (a *app) newDoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as DONE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: not a number: %s", service.ErrInvalidInput, args[0])
			}

			ok, err := a.service.MarkComplete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is DONE\n", id)
			return nil
		},
	}
}

func (a *app) newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [keyword...]",
		Short: "Find tasks whose title contains the keyword",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.service.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printTasks(cmd.OutOrStdout(), tasks)
		},
	}
}

func (a *app) newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.service.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "OPEN:  %d\n", stats.ByStatus[model.StatusOpen])
			fmt.Fprintf(out, "DONE:  %d\n", stats.ByStatus[model.StatusDone])
			fmt.Fprintf(out, "TOTAL: %d\n", stats.TotalTasks)
			return nil
		},
	}
}

func printTasks(out io.Writer, tasks []model.Task) error {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Status, t.CreatedAt.Format(time.DateTime), t.Title)
	}
	return tw.Flush()
}
