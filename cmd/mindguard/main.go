package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pbaille/mindguard/internal/api"
	"github.com/pbaille/mindguard/internal/classifier"
	"github.com/pbaille/mindguard/internal/config"
	"github.com/pbaille/mindguard/internal/crisis"
	"github.com/pbaille/mindguard/internal/domain"
	"github.com/pbaille/mindguard/internal/journal"
	"github.com/pbaille/mindguard/internal/monitor"
	"github.com/pbaille/mindguard/internal/observability"
	"github.com/pbaille/mindguard/internal/store"
	firestorestore "github.com/pbaille/mindguard/internal/store/firestore"
	"github.com/pbaille/mindguard/internal/trends"
)

var (
	dbPath string
	cfg    config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mindguard",
		Short:         "Mood journal with keyword-based risk detection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}
			observability.Configure(os.Stderr, cfg.LogLevel)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "database path (sqlite storage)")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(trendsCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(resourcesCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func getStore(ctx context.Context) (store.Store, error) {
	switch cfg.Storage {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendFirestore:
		return firestorestore.NewStore(ctx, cfg.GCPProjectID)
	default:
		// Ensure directory exists
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		return store.NewSQLite(cfg.DBPath)
	}
}

func getClassifier() (*classifier.Classifier, error) {
	if cfg.KeywordsPath == "" {
		return classifier.NewDefault(), nil
	}
	kw, err := classifier.LoadKeywords(cfg.KeywordsPath)
	if err != nil {
		return nil, err
	}
	return classifier.New(kw), nil
}

// withService opens the store and classifier, runs fn, then closes the store
func withService(ctx context.Context, fn func(*journal.Service, store.Store) error) error {
	clf, err := getClassifier()
	if err != nil {
		return err
	}
	s, err := getStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(journal.NewService(clf, s), s)
}

func addCmd() *cobra.Command {
	var mood int

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Write a journal entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			return withService(cmd.Context(), func(svc *journal.Service, _ store.Store) error {
				out, err := svc.Submit(cmd.Context(), journal.SubmitInput{Text: text, Mood: mood})
				if err != nil {
					return err
				}

				fmt.Printf("Saved entry: %s\n", out.Entry.ID[:8])
				fmt.Printf("Mood:      %d/10\n", out.Entry.Mood)
				fmt.Printf("Sentiment: %s (risk %s, confidence %.2f)\n",
					out.Entry.Sentiment, out.Entry.RiskLevel, out.Entry.Confidence)
				fmt.Printf("\n%s\n", out.Response)

				if out.NeedsAttention {
					printResources()
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&mood, "mood", "m", 5, "mood score from 1 to 10")
	return cmd
}

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(svc *journal.Service, _ store.Store) error {
				entries, err := svc.History(cmd.Context())
				if err != nil {
					return err
				}

				if len(entries) == 0 {
					fmt.Println("No entries yet. Use 'mindguard add' to create one.")
					return nil
				}

				if limit > 0 && len(entries) > limit {
					entries = entries[len(entries)-limit:]
				}
				for _, e := range entries {
					fmt.Printf("%s  %s  %2d  %-10s  %s\n",
						e.ID[:min(8, len(e.ID))], e.Date.Format("2006-01-02 15:04"), e.Mood, e.Sentiment, truncate(e.Text, 50))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func trendsCmd() *cobra.Command {
	var windowFlag string

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show mood averages, distribution and insights",
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := trends.ParseWindow(windowFlag)
			if err != nil {
				return err
			}

			return withService(cmd.Context(), func(svc *journal.Service, _ store.Store) error {
				r, err := svc.Trends(cmd.Context(), window)
				if err != nil {
					return err
				}

				fmt.Printf("Window:  %s (%d entries)\n", r.Window, r.Count)
				fmt.Printf("Average: %.1f\n", r.Average)
				fmt.Printf("High %d / Medium %d / Low %d\n", r.Distribution.High, r.Distribution.Medium, r.Distribution.Low)
				if r.HasTrend {
					fmt.Printf("Trend:   %s\n", trendArrow(r.Trend))
				}

				if len(r.ChartPoints) > 0 {
					fmt.Println("\nRecent moods:")
					for _, p := range r.ChartPoints {
						fmt.Printf("  %s %-10s %d\n", p.Date.Format("Jan 02"), strings.Repeat("#", p.Mood), p.Mood)
					}
				}

				fmt.Println()
				for _, in := range r.Insights {
					fmt.Printf("[%s] %s: %s\n", in.Category, in.Title, in.Description)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&windowFlag, "window", "w", "all", "time window: all, 7d or 30d")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the latest entry needs attention",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(svc *journal.Service, _ store.Store) error {
				st, err := svc.Status(cmd.Context())
				if err != nil {
					return err
				}

				if st.Latest == nil {
					fmt.Println("No entries yet.")
					return nil
				}

				fmt.Printf("Latest: %s, mood %d, %s\n",
					st.Latest.Date.Format("2006-01-02 15:04"), st.Latest.Mood, st.Latest.Sentiment)
				if !st.NeedsAttention {
					fmt.Println("Nothing needs attention right now.")
					return nil
				}
				fmt.Println("Your latest entry suggests you may need some support.")
				printResources()
				return nil
			})
		},
	}
}

func classifyCmd() *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify text without saving it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clf, err := getClassifier()
			if err != nil {
				return err
			}

			ex := clf.Explain(strings.Join(args, " "))
			fmt.Printf("Sentiment:  %s\n", ex.Sentiment)
			fmt.Printf("Risk:       %s\n", ex.RiskLevel)
			fmt.Printf("Confidence: %.2f\n", ex.Confidence)

			if explain {
				printMatches("risk", ex.RiskMatches)
				printMatches("negative", ex.NegativeMatches)
				printMatches("positive", ex.PositiveMatches)
			}

			fmt.Printf("\n%s\n", classifier.Respond(ex.Sentiment, ex.RiskLevel))
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "show matched keywords")
	return cmd
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the history as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(svc *journal.Service, _ store.Store) error {
				entries, err := svc.History(cmd.Context())
				if err != nil {
					return err
				}

				if output == "" || output == "-" {
					return domain.EncodeEntries(os.Stdout, entries)
				}

				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()

				if err := domain.EncodeEntries(f, entries); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(entries), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the history with entries from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			entries, err := domain.DecodeEntries(f)
			if err != nil {
				return err
			}

			return withService(cmd.Context(), func(svc *journal.Service, _ store.Store) error {
				if err := svc.Import(cmd.Context(), entries); err != nil {
					return err
				}
				fmt.Printf("Imported %d entries\n", len(entries))
				return nil
			})
		},
	}
}

func clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			return withService(cmd.Context(), func(svc *journal.Service, _ store.Store) error {
				if err := svc.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("History cleared.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func resourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List crisis helplines",
		RunE: func(cmd *cobra.Command, args []string) error {
			printResources()
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withService(ctx, func(svc *journal.Service, s store.Store) error {
				if cfg.AttentionSchedule != "" {
					w, err := monitor.NewWatcher(s, cfg.AttentionSchedule, cfg.Location)
					if err != nil {
						return err
					}
					go func() {
						if err := w.Run(ctx); err != nil {
							observability.Logger().Error("attention watcher stopped", "error", err)
						}
					}()
				}

				observability.Logger().Info("starting mindguard",
					"storage", cfg.Storage,
					"addr", cfg.Addr,
				)
				return api.New(svc, cfg.Addr).Run(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address")
	return cmd
}

func printResources() {
	fmt.Println("\nYou're not alone. These services can help right now:")
	for _, r := range crisis.Resources() {
		fmt.Printf("  - %s: %s (%s)\n", r.Name, r.Phone, r.Description)
	}
}

func printMatches(table string, words []string) {
	if len(words) == 0 {
		return
	}
	fmt.Printf("  %-8s %s\n", table+":", strings.Join(words, ", "))
}

func trendArrow(sign int) string {
	switch {
	case sign > 0:
		return "up"
	case sign < 0:
		return "down"
	default:
		return "flat"
	}
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
