package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyike/ScoutGo/internal/agents"
	"github.com/dyike/ScoutGo/internal/config"
	"github.com/dyike/ScoutGo/internal/dataflows"
	"github.com/dyike/ScoutGo/internal/display"
	"github.com/dyike/ScoutGo/internal/logger"
	"github.com/dyike/ScoutGo/internal/server"
	"github.com/dyike/ScoutGo/internal/workflow"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "scoutgo",
		Short: "ScoutGo - AI-powered competitor research",
		Long: `ScoutGo answers short factual company questions in one sentence and turns
full research requests into a structured market report memo backed by web
search and financial data.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(cfg.LogLevel)
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(newReportCmd(cfg))
	rootCmd.AddCommand(newAskCmd(cfg))
	rootCmd.AddCommand(newServeCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// buildOrchestrator validates config and wires the production workflow.
func buildOrchestrator(ctx context.Context, cfg *config.Config) (*workflow.Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}

	caller, err := agents.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	searcher := dataflows.NewSerperClient(cfg.SerperAPIKey)
	avClient := dataflows.NewAlphaVantageClient(cfg.AlphaVantageAPIKey, cfg.DataCacheDir, cfg.CacheEnabled)

	news := &agents.NewsResearcher{Caller: caller, Searcher: searcher}
	finance := &agents.FinancialAnalyst{Caller: caller, Client: avClient}
	report := &agents.ReportWriter{Caller: caller}

	return workflow.New(caller, news, finance, report), nil
}

func runWorkflow(cfg *config.Config, message string) error {
	ctx := context.Background()

	orch, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx, message)
	if err != nil {
		return fmt.Errorf("workflow failed: %w", err)
	}

	display.PrintDocument(result.Document)
	display.PrintSources(result.State.Sources)
	return nil
}

func newReportCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "report [PROMPT]",
		Short: "Answer a question or generate a competitor report",
		Long: `Run the research workflow for a free-form prompt.
Example: scoutgo report "Research Nvidia ticker NVDA"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.TrimSpace(args[0])
			if message == "" {
				return fmt.Errorf("prompt is required")
			}
			return runWorkflow(cfg, message)
		},
	}
}

func newAskCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ask",
		Short: "Interactively enter a question or research prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := PromptForQuestion()
			if err != nil {
				return err
			}
			return runWorkflow(cfg, message)
		},
	}
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = cfg.ListenAddr
			}

			orch, err := buildOrchestrator(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			return server.New(orch).ListenAndServe(addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (defaults to LISTEN_ADDR or :8080)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ScoutGo v1.0.0")
			fmt.Println("Competitor research powered by Large Language Models")
		},
	}
}
