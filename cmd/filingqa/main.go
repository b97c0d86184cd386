package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dgallion1/filingqa/internal/analyzer"
	"github.com/dgallion1/filingqa/internal/answer"
	"github.com/dgallion1/filingqa/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		docPath   string
		cachePath string
		topK      int
	)

	cmd := &cobra.Command{
		Use:   "filingqa [question]",
		Short: "Ask questions about a financial filing from the command line",
		Long: `filingqa extracts a filing once, caches the result, and answers
questions against it using keyword retrieval plus a language model.

With a question argument it answers once and exits; without one it
starts an interactive session.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg := config.Load()
			if docPath != "" {
				cfg.DocumentPath = docPath
			}
			if cachePath != "" {
				cfg.CachePath = cachePath
			}
			cfg.MaxSections = topK
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}))

			var client answer.Client
			switch cfg.AnswerProvider {
			case config.ProviderOpenAI:
				client = answer.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.MaxAnswerTokens)
			default:
				client = answer.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.MaxAnswerTokens, cfg.AnswerTimeout)
			}

			a, err := analyzer.New(cfg, answer.WithRetry(client), log)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Loading %s...\n", cfg.DocumentPath)
			if err := a.Load(); err != nil {
				return err
			}
			stats := a.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Ready: %d sections, %d characters.\n\n",
				stats.TotalSections, stats.TotalCharacters)

			if len(args) > 0 {
				return askOnce(cmd, a, strings.Join(args, " "))
			}
			return interactive(cmd, a)
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "path to the document (overrides DOCUMENT_PATH)")
	cmd.Flags().StringVar(&cachePath, "cache", "", "path to the cache file (overrides CACHE_PATH)")
	cmd.Flags().IntVar(&topK, "top", 3, "maximum sections to retrieve per question")

	return cmd
}

func askOnce(cmd *cobra.Command, a *analyzer.Analyzer, question string) error {
	res, err := a.Ask(cmd.Context(), question)
	if err != nil {
		return err
	}
	printResult(cmd, res)
	return nil
}

func interactive(cmd *cobra.Command, a *analyzer.Analyzer) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Interactive mode. Type 'quit', 'exit' or 'q' to stop.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "\n? ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "quit", "exit", "q":
			return nil
		case "":
			continue
		}

		res, err := a.Ask(cmd.Context(), question)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		printResult(cmd, res)
	}
}

func printResult(cmd *cobra.Command, res analyzer.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, strings.Repeat("-", 60))
	fmt.Fprintln(out, res.Answer)
	fmt.Fprintln(out, strings.Repeat("-", 60))
	fmt.Fprintf(out, "(%d sections, %.1fs)\n", res.SectionsUsed, res.Duration.Seconds())
}
