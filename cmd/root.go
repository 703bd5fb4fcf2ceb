package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mreg-cli/core/config"
	"mreg-cli/core/database"
	"mreg-cli/core/logger"
	"mreg-cli/core/mreg"
	"mreg-cli/feature/history"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "mreg-cli",
	Short: "Client for the mreg host and subnet inventory",
	Long: `mreg-cli talks to the mreg inventory API: hosts, their DNS records
and the subnets they live on. Its core job is the subnet import, which
reconciles the service's inventory against a flat description file and
leaves an audit transcript behind. Mutating commands are journaled to a
local database so they can be listed, undone and redone.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	// Commands block on network calls; an interrupt cancels the context
	// they all run under.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			// Log the error with structured logger (Console encoding will make it pretty)
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// cmdEnv carries what every command handler needs once the process is
// configured: the configuration, the logger, the API client and, when a
// database is reachable, the history journal.
type cmdEnv struct {
	cfg      *config.Config
	log      *zap.Logger
	client   *mreg.Client
	db       *gorm.DB
	store    *history.Store
	recorder *history.Recorder
}

// newEnv loads the configuration and wires the client. The database is
// optional: without it commands still run, they just leave no history
// behind.
func newEnv() (*cmdEnv, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	env := &cmdEnv{cfg: cfg, log: logg, client: mreg.NewClient(cfg.Server, logg)}

	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional history database connection failed", zap.Error(err))
	} else if store, err := history.NewStore(conn); err != nil {
		logg.Warn("History store setup failed", zap.Error(err))
	} else {
		env.db = conn
		env.store = store
		env.recorder = history.NewRecorder(store, logg)
		env.client.SetJournal(env.recorder)
	}

	return env, nil
}

// finish commits the journaled requests as one history event named after
// the invoked command line. Requests that reached the service before a
// failure are committed too; that keeps them undoable.
func (e *cmdEnv) finish(ctx context.Context, command string, runErr error) error {
	if e.recorder == nil {
		return runErr
	}
	if err := e.recorder.Commit(ctx, command); err != nil {
		e.log.Warn("Recording history event failed", zap.Error(err))
	}
	return runErr
}

// commandLine reconstructs the invocation for history event naming.
func commandLine(cmd *cobra.Command, args []string) string {
	return strings.Join(append([]string{cmd.CommandPath()}, args...), " ")
}

// hasForceToken reports whether one of the trailing tokens is the literal
// "y" force marker the import scripts pass.
func hasForceToken(extra []string) bool {
	for _, arg := range extra {
		if arg == "y" {
			return true
		}
	}
	return false
}
