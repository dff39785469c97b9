package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
)

var resetSessionsCmd = &cobra.Command{
	Use:   "reset-sessions",
	Short: "Remove every user from their study session",
	Long:  `This command clears the session assignment of all users. Study sessions, courses and reviews are kept.`,
	Run:   resetSessions,
}

func init() {
	rootCmd.AddCommand(resetSessionsCmd)
}

func resetSessions(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	log.Info("Detaching all users from their study sessions...")

	n, err := db.DetachAllParticipants(cmd.Context())
	if err != nil {
		log.Fatalf("failed to reset sessions: %v", err)
	}

	log.Info("Successfully reset study sessions", "users", n)
}
