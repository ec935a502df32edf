package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"gits-go/internal/app"
	"gits-go/internal/config"
	"gits-go/internal/gits"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a GitsApp. The caller must defer app.Close().
func newApp() (*app.GitsApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config (run 'gits config init' first): %w", err)
	}

	a, err := app.NewGitsApp(cfg, defaults["log_dir"])
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "gits SCHEDULE-TIME",
	Short: "Schedule a future git commit and push",
	Long: `gits packages the working tree's current changes and schedules a remote
worker to commit and push them at the given time.

The schedule time is ISO 8601, either UTC (2025-07-17T15:00:00Z) or local
(2025-07-17T15:00:00).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message, _ := cmd.Flags().GetString("message")
		files, _ := cmd.Flags().GetStringSlice("file")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.Schedule(context.Background(), args[0], message, files)
		if err != nil {
			if errors.Is(err, gits.ErrNoChanges) {
				fmt.Println("No changes found.")
				return nil
			}
			return err
		}

		fmt.Println("Successfully scheduled")
		fmt.Printf("Job ID: %s\n", resp.RuleName)
		fmt.Printf("Cron:   %s\n", resp.CronExpression)
		return nil
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View the most recent scheduled job",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.Status(context.Background())
		if err != nil {
			var remote *gits.RemoteError
			if errors.As(err, &remote) && remote.StatusCode == 404 {
				fmt.Println("No scheduled jobs found.")
				return nil
			}
			return err
		}

		fmt.Printf("Job ID:        %s\n", resp.JobID)
		fmt.Printf("Schedule Time: %s\n", resp.ScheduleTime)
		fmt.Printf("Status:        %s\n", resp.Status)
		return nil
	},
}

// delete command
var deleteCmd = &cobra.Command{
	Use:   "delete JOB-ID",
	Short: "Cancel a pending scheduled job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.Delete(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(resp.Message)
		return nil
	},
}

// log command
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View locally recorded submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		subs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(subs) == 0 {
			fmt.Println("No submissions recorded.")
			return nil
		}

		for _, s := range subs {
			fmt.Printf("%s  %s  %s  %q\n",
				s.CreatedAt.Format("2006-01-02 15:04:05"),
				s.JobID,
				s.ScheduleTime,
				s.CommitMessage,
			)
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiURL, _ := cmd.Flags().GetString("api-url")
		userID, _ := cmd.Flags().GetString("user-id")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(apiURL, userID, defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Println("Set your GitHub identity and token secret in the [github] section,")
		fmt.Println("then store your token with 'gits config set-token'.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("API URL:      %s\n", cfg.APIURL)
		fmt.Printf("User ID:      %s\n", cfg.UserID)
		fmt.Printf("GitHub User:  %s\n", cfg.GitHub.User)
		fmt.Printf("GitHub Email: %s\n", cfg.GitHub.Email)
		fmt.Printf("Token Secret: %s\n", cfg.GitHub.TokenSecret)
		if cfg.GitHub.Token != "" {
			fmt.Println("Token:        (set)")
		} else {
			fmt.Println("Token:        (not set)")
		}
		return nil
	},
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store the GitHub access token",
	Long: `Prompts for the GitHub access token without echoing it and stores it in
the config file. The token is sealed before every transmission; only its
sealed form leaves this machine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Print("GitHub token: ")
		token, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		if len(token) == 0 {
			return fmt.Errorf("empty token")
		}

		cfg.GitHub.Token = string(token)
		if err := config.WriteToFile(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Println("Token stored.")
		return nil
	},
}

func init() {
	rootCmd.Flags().StringP("message", "m", "", "Commit message")
	rootCmd.Flags().StringSliceP("file", "f", nil, "Restrict to the given file(s); repeatable or comma-separated")

	logCmd.Flags().IntP("limit", "n", 50, "Maximum number of submissions to show")

	configInitCmd.Flags().String("api-url", "", "Scheduling service base URL")
	configInitCmd.Flags().String("user-id", "", "Opaque user identifier")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetTokenCmd)

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(configCmd)
}
