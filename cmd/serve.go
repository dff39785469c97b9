package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/studylync/studylync/internal/api"
	"github.com/studylync/studylync/internal/cache"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	"github.com/studylync/studylync/internal/membership"
	"github.com/studylync/studylync/internal/notify"
	"github.com/studylync/studylync/internal/notify/email"
	"github.com/studylync/studylync/internal/notify/ntfy"
	"github.com/studylync/studylync/internal/query"
	"github.com/studylync/studylync/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the StudyLync server",
	Long:  `Start the StudyLync REST API together with the session expiry scheduler.`,
	Example: `studylync serve --config config.yml
studylync serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyLogLevel(cfg.LogLevel)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	q := query.New(db, cache.NewQueryCache(cfg.Cache), cfg)
	members := membership.New(db, q, newNotifier(cfg), cfg)

	sched, err := scheduler.New()
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}
	if err := members.RegisterJobs(sched); err != nil {
		log.Fatalf("failed to register jobs: %v", err)
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error("failed to stop scheduler", "error", err)
		}
	}()

	server, err := api.New(cfg, db, q, members, sched)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		log.Error("API server error", "error", err)
	}

	log.Info("waiting for pending notifications")
	members.Wait()
	log.Info("studylync stopped")
}

func newNotifier(cfg *config.Config) notify.Notifier {
	var notifiers notify.Multi
	if cfg.Email != nil && cfg.Email.Enabled {
		notifiers = append(notifiers, email.New(cfg.Email, cfg.ServerURL))
		log.Info("email notifications enabled", "host", cfg.Email.SMTPHost)
	}
	if cfg.Ntfy != nil && cfg.Ntfy.Enabled {
		notifiers = append(notifiers, ntfy.NewClient(cfg.Ntfy, cfg.ServerURL))
		log.Info("ntfy notifications enabled", "topic", cfg.Ntfy.Topic)
	}
	if len(notifiers) == 0 {
		return notify.Noop{}
	}
	return notifiers
}

