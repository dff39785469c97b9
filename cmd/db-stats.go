package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display row counts and the most attended courses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.New(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Users: %s (%s in a session)\n", humanize.Comma(stats.Users), humanize.Comma(stats.AssignedUsers))
		fmt.Printf("Courses: %s\n", humanize.Comma(stats.Courses))
		fmt.Printf("Locations: %s\n", humanize.Comma(stats.Locations))
		fmt.Printf("Study Sessions: %s (%s active)\n", humanize.Comma(stats.Sessions), humanize.Comma(stats.ActiveSessions))
		fmt.Printf("Reviews: %s\n", humanize.Comma(stats.Reviews))

		avg, err := db.GetAverageRating(cmd.Context())
		if err == nil && stats.Reviews > 0 {
			fmt.Printf("Average Rating: %.2f\n", avg)
		}

		top, err := db.GetTopCourses(cmd.Context(), cfg.GetTopCourses())
		if err == nil && len(top) > 0 {
			fmt.Println("\nMost Attended Courses:")
			for i, row := range top {
				fmt.Printf("  %s. %s (%s): %s %s\n",
					humanize.Ordinal(i+1), row.CourseTitle, row.CourseName,
					humanize.Comma(row.StudentCount), pluralStudents(row.StudentCount))
			}
		}

		return nil
	},
}

func pluralStudents(n int64) string {
	if n == 1 {
		return "student"
	}
	return "students"
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
