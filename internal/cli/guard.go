package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/tmpdb/internal/config"
	"github.com/vvka-141/tmpdb/internal/guard"
	"github.com/vvka-141/tmpdb/internal/logging"
	"github.com/vvka-141/tmpdb/pkg/tmpdb"
)

// guardCmd is the supervisor child. The library re-enters the tmpdb binary
// through this command; it is not meant to be invoked by hand.
var guardCmd = &cobra.Command{
	Use:    "guard",
	Hidden: true,
	Short:  "Watch the owning process and drop its database when it exits",
	RunE:   runGuard,
}

func init() {
	guardCmd.Flags().String("mode", "", "Watch strategy: pipe or detach")
	guardCmd.Flags().String("url", "", "Server URL the database lives on")
	guardCmd.Flags().String("name", "", "Database to drop (file path for sqlite)")
	guardCmd.Flags().Int("parent", 0, "Pid to poll in detach mode")
	guardCmd.Flags().Duration("interval", tmpdb.DefaultGuardInterval, "Poll interval in detach mode")
	rootCmd.AddCommand(guardCmd)
}

func runGuard(cmd *cobra.Command, _ []string) error {
	modeFlag, _ := cmd.Flags().GetString("mode")
	rawURL, _ := cmd.Flags().GetString("url")
	dbName, _ := cmd.Flags().GetString("name")
	parent, _ := cmd.Flags().GetInt("parent")
	interval, _ := cmd.Flags().GetDuration("interval")

	mode, ok := guard.ParseMode(modeFlag)
	if !ok || mode == guard.ModeNone {
		return fmt.Errorf("guard requires --mode pipe or --mode detach: %w", tmpdb.ErrInvalidConfig)
	}
	if rawURL == "" || dbName == "" {
		return fmt.Errorf("guard requires --url and --name: %w", tmpdb.ErrInvalidConfig)
	}

	env := config.FromEnv()
	logger := logging.NewConsoleLogger(env.Debug)
	watcher := guard.NewWatcher(func(ctx context.Context) error {
		return tmpdb.DropDatabase(ctx, rawURL, dbName)
	}, logger)

	// Termination signals trigger cleanup-then-exit instead of leaking the
	// guarded database.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case guard.ModePipe:
		return watcher.WatchPipe(ctx, os.Stdin)
	case guard.ModeDetach:
		if parent <= 0 {
			return fmt.Errorf("detach mode requires --parent: %w", tmpdb.ErrInvalidConfig)
		}
		if env.GuardInterval != 0 {
			interval = env.GuardInterval
		}
		return watcher.PollParent(ctx, parent, interval, guard.Alive)
	}
	return nil
}
