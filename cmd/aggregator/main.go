package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/app"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/config"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "aggregator failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return newRootCmd(cfg).ExecuteContext(ctx)
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "aggregator",
		Short:         "Regional news aggregation pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newFetchCmd(cfg),
		newFetchSourceCmd(cfg),
		newScheduleCmd(cfg),
		newPendingCmd(cfg),
		newModerateCmd(cfg, "approve", "approved", "Approve a pending article by id"),
		newModerateCmd(cfg, "reject", "rejected", "Reject a pending article by id"),
		newExportCmd(cfg),
		newStatsCmd(cfg),
		newPingCmd(cfg),
	)
	return root
}

// withApp builds the runtime, runs fn, and tears the runtime down again.
func withApp(cfg *config.Config, fn func(a *app.App) error) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newFetchCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Run one aggregation pass over all configured sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cfg, func(a *app.App) error {
				summary, err := a.RunOnce(cmd.Context())
				if err != nil {
					return err
				}
				printSummary(cmd, summary.NewArticles, a)
				return nil
			})
		},
	}
}

func newFetchSourceCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-source NAME",
		Short: "Run one aggregation pass over a single source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app.App) error {
				summary, err := a.RunSource(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSummary(cmd, summary.NewArticles, a)
				return nil
			})
		},
	}
}

func newScheduleCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run aggregation passes on a fixed interval until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cfg, func(a *app.App) error {
				return a.RunScheduled(cmd.Context())
			})
		},
	}
	cmd.Flags().IntVar(&cfg.FetchIntervalMinutes, "interval", cfg.FetchIntervalMinutes, "minutes between passes")
	return cmd
}

func newPendingCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List articles awaiting moderation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cfg, func(a *app.App) error {
				pending := a.Pending()
				cmd.Printf("Pending articles (%d):\n\n", len(pending))
				for _, art := range pending {
					cmd.Printf("  [%d] %s\n", art.ID, art.Title)
					cmd.Printf("      source: %s | category: %s | language: %s\n", art.SourceName, art.Category, art.Language)
					if len(art.MatchedKeywords) > 0 {
						cmd.Printf("      keywords: %v\n", art.MatchedKeywords)
					}
					cmd.Println()
				}
				return nil
			})
		},
	}
}

func newModerateCmd(cfg *config.Config, verb, done, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid article id %q", args[0])
			}
			return withApp(cfg, func(a *app.App) error {
				if verb == "approve" {
					err = a.Approve(id)
				} else {
					err = a.Reject(id)
				}
				if err != nil {
					return err
				}
				cmd.Printf("article %d %s\n", id, done)
				return nil
			})
		},
	}
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export approved articles in CRM format",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cfg, func(a *app.App) error {
				n, path, err := a.Export(cmd.Context())
				if err != nil {
					return err
				}
				cmd.Printf("exported %d articles to %s\n", n, path)
				return nil
			})
		},
	}
}

func newStatsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print article counts by moderation status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cfg, func(a *app.App) error {
				counts := a.Stats()
				cmd.Printf("total: %d\npending: %d\napproved: %d\nrejected: %d\n",
					counts.Total, counts.Pending, counts.Approved, counts.Rejected)
				return nil
			})
		},
	}
}

func newPingCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to the downstream submission endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cfg, func(a *app.App) error {
				if err := a.Ping(cmd.Context()); err != nil {
					return fmt.Errorf("backend unreachable: %w", err)
				}
				cmd.Println("backend reachable")
				return nil
			})
		},
	}
}

func printSummary(cmd *cobra.Command, newArticles int, a *app.App) {
	counts := a.Stats()
	cmd.Printf("new articles: %d\ntotal: %d\npending: %d\napproved: %d\nrejected: %d\n",
		newArticles, counts.Total, counts.Pending, counts.Approved, counts.Rejected)
}
