package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scholarseek/scholarseek/internal/app"
	"github.com/scholarseek/scholarseek/internal/classifier"
	"github.com/scholarseek/scholarseek/internal/config"
	"github.com/scholarseek/scholarseek/internal/index"
	"github.com/scholarseek/scholarseek/internal/scheduler"
	"github.com/scholarseek/scholarseek/internal/spinner"
	"github.com/scholarseek/scholarseek/internal/store"
)

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// openApp loads configuration, opens the store and builds the App.
// The returned cleanup closes the store.
func openApp(cmd *cobra.Command) (*app.App, config.Config, func(), error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	setupLogger(debug)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	return app.New(cfg, st), cfg, func() { st.Close() }, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

var rootCmd = &cobra.Command{
	Use:   "scholarseek",
	Short: "Crawl, search and classify academic publications",
	Long: `Scholarseek crawls an academic publication portal into a local corpus,
ranks publications against free-text queries with field-weighted TF-IDF,
and assigns topical labels to arbitrary text with a Naive Bayes
classifier chain.

Examples:
  scholarseek crawl
  scholarseek search "gas turbine design"
  scholarseek classify --text "hospital CEO merger"
  scholarseek train dataset.json
  scholarseek schedule`,
	SilenceUsage: true,
}

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run one BFS crawl of the configured portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, cleanup, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signalContext()
		defer stop()

		sp := spinner.New(ctx, os.Stderr, "crawling")
		sp.Start()
		stats, err := a.RunCrawl(ctx)
		sp.Stop()
		if err != nil {
			return fmt.Errorf("crawl failed: %w", err)
		}

		fmt.Printf("crawl complete: %d pages fetched, %d profiles, %d new publications, %d skipped\n",
			stats.PagesFetched, stats.ProfilesCrawled, stats.DocumentsStored, len(stats.Skipped))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank stored publications against a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topK, _ := cmd.Flags().GetInt("top")
		jsonOut, _ := cmd.Flags().GetBool("json")

		a, _, cleanup, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signalContext()
		defer stop()

		results, err := a.Search(ctx, strings.Join(args, " "), topK)
		if err != nil {
			return err
		}

		if jsonOut {
			return json.NewEncoder(os.Stdout).Encode(results)
		}

		if len(results) == 0 {
			fmt.Println("no matching publications")
			return nil
		}
		for i, r := range results {
			fmt.Printf("%2d. %s (%.4f)\n", i+1, r.Document.Title, r.Score)
			if len(r.Document.Authors) > 0 {
				fmt.Printf("    %s", strings.Join(r.Document.Authors, ", "))
				if r.Document.Year != "" {
					fmt.Printf(" (%s)", r.Document.Year)
				}
				fmt.Println()
			}
			if r.Snippet != "" {
				fmt.Printf("    %s\n", r.Snippet)
			}
			fmt.Printf("    %s\n", formatContributions(r.Contributions))
			fmt.Printf("    %s\n", r.Document.SourceURL)
		}
		return nil
	},
}

// formatContributions renders non-zero field contributions in descending
// order, e.g. "title 74.1% | abstract 25.9%".
func formatContributions(contributions map[index.Field]float64) string {
	type fc struct {
		field index.Field
		pct   float64
	}
	var parts []fc
	for field, pct := range contributions {
		if pct > 0 {
			parts = append(parts, fc{field, pct})
		}
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].pct != parts[j].pct {
			return parts[i].pct > parts[j].pct
		}
		return parts[i].field < parts[j].field
	})

	rendered := make([]string, len(parts))
	for i, p := range parts {
		rendered[i] = fmt.Sprintf("%s %.1f%%", p.field, p.pct)
	}
	return strings.Join(rendered, " | ")
}

var classifyCmd = &cobra.Command{
	Use:   "classify [source]",
	Short: "Assign topical labels to text, a file, a URL or stdin",
	Long: `Classify assigns zero or more topical labels to input text.

The input comes from --text, or from a source argument: a file path, an
http(s) URL (main article content is extracted first), or "-" for stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		jsonOut, _ := cmd.Flags().GetBool("json")
		showSteps, _ := cmd.Flags().GetBool("steps")

		a, _, cleanup, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signalContext()
		defer stop()

		if text == "" {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			text, err = a.ExtractText(ctx, source)
			if err != nil {
				return err
			}
		}

		result, err := a.Classify(ctx, text, threshold)
		if err != nil {
			return err
		}

		if jsonOut {
			return json.NewEncoder(os.Stdout).Encode(result)
		}

		if len(result.Labels) == 0 {
			fmt.Printf("labels: none (confidence: %s)\n", result.Confidence)
		} else {
			fmt.Printf("labels: %s (confidence: %s)\n", strings.Join(result.Labels, ", "), result.Confidence)
		}

		labels := make([]string, 0, len(result.Probabilities))
		for label := range result.Probabilities {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Printf("  %-15s %.3f\n", label, result.Probabilities[label])
		}

		if len(result.TopFeatures) > 0 {
			terms := make([]string, len(result.TopFeatures))
			for i, f := range result.TopFeatures {
				terms[i] = f.Term
			}
			fmt.Printf("top features: %s\n", strings.Join(terms, ", "))
		}

		if showSteps {
			fmt.Println("preprocessing:")
			for _, step := range result.Steps {
				fmt.Printf("  %-12s %s\n", step.Name+":", step.Output)
			}
		}
		return nil
	},
}

var trainCmd = &cobra.Command{
	Use:   "train <dataset.json>",
	Short: "Train the classifier chain from a labeled dataset",
	Long: `Train fits the classifier chain on a JSON dataset: an array of
{"text": ..., "labels": [...]} objects. The trained model is persisted
and used by subsequent classify invocations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		testFraction, _ := cmd.Flags().GetFloat64("test-fraction")

		a, _, cleanup, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signalContext()
		defer stop()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading dataset: %w", err)
		}
		var samples []classifier.Sample
		if err := json.Unmarshal(data, &samples); err != nil {
			return fmt.Errorf("parsing dataset %s: %w", args[0], err)
		}

		sp := spinner.New(ctx, os.Stderr, "training")
		sp.Start()
		metrics, err := a.Train(ctx, samples, testFraction)
		sp.Stop()
		if err != nil {
			return fmt.Errorf("training failed: %w", err)
		}

		fmt.Printf("trained on %d samples\n", len(samples))
		if len(metrics) > 0 {
			fmt.Printf("%-15s %9s %9s %9s %9s\n", "label", "precision", "recall", "f1", "support")
			for _, m := range metrics {
				fmt.Printf("%-15s %9.3f %9.3f %9.3f %9d\n", m.Label, m.Precision, m.Recall, m.F1, m.Support)
			}
		}
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run crawls on the configured cron cadence until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cfg, cleanup, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signalContext()
		defer stop()

		sched := scheduler.New(cfg.Schedule.Cron, func(ctx context.Context) error {
			_, err := a.RunCrawl(ctx)
			return err
		})
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()

		fmt.Printf("scheduling crawls (%s); press Ctrl-C to stop\n", cfg.Schedule.Cron)
		<-ctx.Done()
		return nil
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent crawl run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, _, cleanup, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signalContext()
		defer stop()

		runs, err := a.CrawlHistory(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no crawl runs recorded")
			return nil
		}

		for _, run := range runs {
			line := fmt.Sprintf("%s  %-9s  started %s", run.ID[:8], run.Status,
				run.StartedAt.Local().Format("2006-01-02 15:04:05"))
			if run.FinishedAt != nil {
				line += fmt.Sprintf("  took %s", run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
			}
			if run.Status == store.RunStatusCompleted {
				line += fmt.Sprintf("  %d docs, %d profiles", run.DocumentsAdded, run.ProfilesCrawled)
			}
			if run.ErrorMessage != "" {
				line += "  " + run.ErrorMessage
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to TOML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	searchCmd.Flags().IntP("top", "n", 0, "Number of results (default from config)")
	searchCmd.Flags().Bool("json", false, "Output results as JSON")

	classifyCmd.Flags().String("text", "", "Classify this text directly")
	classifyCmd.Flags().Float64P("threshold", "t", 0.30, "Decision threshold in [0,1]")
	classifyCmd.Flags().Bool("json", false, "Output result as JSON")
	classifyCmd.Flags().Bool("steps", false, "Show preprocessing stages")

	trainCmd.Flags().Float64("test-fraction", 0.2, "Held-out fraction for evaluation (0 disables)")

	runsCmd.Flags().Int("limit", 20, "Number of runs to show")

	rootCmd.AddCommand(crawlCmd, searchCmd, classifyCmd, trainCmd, scheduleCmd, runsCmd)
}

func main() {
	// optional .env for SCHOLARSEEK_* overrides
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
