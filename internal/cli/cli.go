package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Aum2411/Task-4-Raag/internal/config"
	internal_http "github.com/Aum2411/Task-4-Raag/internal/http"
	"github.com/Aum2411/Task-4-Raag/internal/log"
	"github.com/Aum2411/Task-4-Raag/internal/service"
	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/Aum2411/Task-4-Raag/pkg/workflow"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const bannerWidth = 70

// SetupCLI wires the research modes onto the root command. The root run
// dispatches on --mode the way the interactive assistant is usually driven;
// `serve` starts the HTTP API instead.
func SetupCLI(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("db", "", "Database connection string (defaults to DATABASE_URL)")
	rootCmd.Flags().String("mode", "interactive", "Operation mode: interactive, research, deep, document or compare")
	rootCmd.Flags().String("query", "", "Research query (research and deep modes)")
	rootCmd.Flags().String("path", "", "Document file path (document mode)")
	rootCmd.Flags().String("action", "analyze", "Document action: analyze or add")
	rootCmd.Flags().StringSlice("topics", nil, "Two topics to compare (compare mode)")

	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		mode, err := cmd.Flags().GetString("mode")
		if err != nil {
			log.GetLogger().Errorf("Error retrieving mode flag: %v", err)
			os.Exit(1)
		}
		query, _ := cmd.Flags().GetString("query")
		path, _ := cmd.Flags().GetString("path")
		action, _ := cmd.Flags().GetString("action")
		topics, _ := cmd.Flags().GetStringSlice("topics")

		switch mode {
		case "interactive":
		case "research", "deep":
			if query == "" {
				fmt.Fprintf(os.Stderr, "Error: --query required for %s mode\n", mode)
				os.Exit(1)
			}
		case "document":
			if path == "" {
				fmt.Fprintln(os.Stderr, "Error: --path required for document mode")
				os.Exit(1)
			}
			if action != "analyze" && action != "add" {
				fmt.Fprintf(os.Stderr, "Error: unknown action '%s', expected analyze or add\n", action)
				os.Exit(1)
			}
		case "compare":
			if len(topics) != 2 {
				fmt.Fprintln(os.Stderr, "Error: --topics requires exactly two topics for compare mode")
				os.Exit(1)
			}
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown mode '%s'\n", mode)
			os.Exit(1)
		}
		log.GetLogger().Debugf("Running mode %s", mode)

		svc, _ := initService(cmd)
		defer svc.Close()

		ctx := context.Background()
		switch mode {
		case "interactive":
			err = runInteractive(ctx, svc, os.Stdin)
		case "research":
			err = runResearch(ctx, svc, query)
		case "deep":
			err = runDeepResearch(ctx, svc, query)
		case "document":
			err = runDocument(ctx, svc, path, action)
		case "compare":
			err = runCompare(ctx, svc, topics[0], topics[1])
		}
		if err != nil {
			fatal(err)
		}
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the research HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			svc, cfg := initService(cmd)
			defer svc.Close()

			addr, err := cmd.Flags().GetString("addr")
			if err != nil {
				log.GetLogger().Errorf("Error retrieving addr flag: %v", err)
				os.Exit(1)
			}
			if addr == "" {
				addr = cfg.HTTPAddr
			}
			srv := internal_http.NewServer(svc.RAG, svc.Research)
			if err := internal_http.Start(addr, srv); err != nil {
				fatal(errors.Wrap(err, "server failed"))
			}
		},
	}
	serveCmd.Flags().String("addr", "", "Listen address (defaults to HTTP_ADDR)")

	rootCmd.AddCommand(serveCmd)
}

// initService assembles the agent stack from the environment, honoring the
// --db override. Exits the process when assembly fails.
func initService(cmd *cobra.Command) (*service.ResearchService, config.Config) {
	cfg := config.Load()
	if db, err := cmd.Flags().GetString("db"); err == nil && db != "" {
		cfg.DatabaseURL = db
	}
	svc, err := service.NewResearchService(cfg)
	if err != nil {
		log.GetLogger().Errorf("Failed to initialize research service: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return svc, cfg
}

func runResearch(ctx context.Context, svc *service.ResearchService, query string) error {
	fmt.Printf("Researching: %s\n\n", query)
	summary, matches, err := svc.RAG.Research(ctx, query, models.ComprehensiveDepth)
	if err != nil {
		return errors.Wrap(err, "research failed")
	}
	fmt.Printf("Research Summary:\n\n%s\n", summary)
	fmt.Printf("\nBased on %d sources\n", len(matches))
	return nil
}

func runDeepResearch(ctx context.Context, svc *service.ResearchService, query string) error {
	report, err := svc.Research.DeepResearch(ctx, query, models.StandardDepth)
	if err != nil {
		return errors.Wrap(err, "deep research failed")
	}
	printBanner("RESEARCH REPORT")
	fmt.Println(report.Report)
	fmt.Printf("Sources used: %d\n", len(report.Sources))
	fmt.Printf("Subtasks completed: %d\n", len(report.Findings))
	return nil
}

func runDocument(ctx context.Context, svc *service.ResearchService, path, action string) error {
	fmt.Printf("Processing document: %s\n\n", path)
	if action == "add" {
		doc, err := svc.RAG.AddDocument(ctx, path)
		if err != nil {
			return errors.Wrap(err, "adding document failed")
		}
		fmt.Printf("Added %d chunks to knowledge base\n", doc.Chunks)
		return nil
	}

	wf, err := svc.Research.DocumentAnalysisWorkflow(path)
	if err != nil {
		return err
	}
	summary, err := wf.Execute(ctx, nil)
	if err != nil {
		return err
	}
	if summary.Overall == workflow.FailedOverallStatus {
		return errors.Errorf("document analysis failed: %s", stepErrors(summary))
	}
	fmt.Println("Analysis Results:")
	if text := summary.Context.Text("summarize"); text != "" {
		fmt.Printf("\nSummary:\n%s\n", text)
	}
	if text := summary.Context.Text("insights"); text != "" {
		fmt.Printf("\nInsights:\n%s\n", text)
	}
	return nil
}

func runCompare(ctx context.Context, svc *service.ResearchService, topicA, topicB string) error {
	fmt.Printf("Comparing: %s vs %s\n\n", topicA, topicB)
	result, err := svc.Research.CompareTopics(ctx, topicA, topicB)
	if err != nil {
		return errors.Wrap(err, "comparison failed")
	}
	printBanner("COMPARISON REPORT")
	fmt.Println(result.Comparison)
	return nil
}

// stepErrors lists the failed steps of a run for error messages.
func stepErrors(s *workflow.Summary) string {
	var parts []string
	for _, step := range s.Steps {
		if step.Status == workflow.FailedStepStatus && step.Error != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", step.ID, step.Error))
		}
	}
	if len(parts) == 0 {
		return "no steps completed"
	}
	return strings.Join(parts, "; ")
}

func printBanner(title string) {
	line := strings.Repeat("=", bannerWidth)
	fmt.Printf("%s\n%s\n%s\n\n", line, title, line)
}

func fatal(err error) {
	log.GetLogger().Errorf("%v", err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
