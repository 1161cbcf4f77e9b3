// Package main provides the sitectl CLI for managing the site assistant.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aidenkiefer/site-assistant/internal/corpus"
	"github.com/aidenkiefer/site-assistant/internal/generate"
	ghclient "github.com/aidenkiefer/site-assistant/internal/github"
	"github.com/aidenkiefer/site-assistant/internal/llm"
	"github.com/aidenkiefer/site-assistant/internal/retrieval"
)

var rootCmd = &cobra.Command{
	Use:   "sitectl",
	Short: "Site assistant management tool",
	Long:  "CLI tool for indexing site content, asking one-shot questions, and syncing content from GitHub",
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the content index and report statistics",
	Long: `Loads markdown content from disk, chunks it, and prints index statistics.

Environment variables:
  CONTENT_DIR    Directory of markdown content (default: content)
  SITE_BASE_URL  Base URL for source citations (default: https://aidenkiefer.com)`,
	RunE: runIndex,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a one-shot question",
	Long: `Runs one question through the full pipeline: retrieval, confidence
gate, and structured generation. Prints the JSON response.

Environment variables:
  CONTENT_DIR        Directory of markdown content (default: content)
  SITE_BASE_URL      Base URL for source citations
  ANTHROPIC_API_KEY  Anthropic API key (preferred provider)
  OPENAI_API_KEY     OpenAI API key (fallback provider)`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror site content from GitHub to the local content directory",
	Long: `Downloads all markdown files from the configured GitHub repository
into the local content directory, then reports index statistics.

Environment variables:
  GITHUB_OWNER     Repository owner (default: aidenkiefer)
  GITHUB_REPO      Repository name (default: aidenkiefer.com)
  GITHUB_PATH      Content path within the repository (default: content)
  GITHUB_TOKEN     GitHub token for higher rate limits (optional)
  CONTENT_DIR      Local destination directory (default: content)`,
	RunE: runSync,
}

var askPathname string

func init() {
	askCmd.Flags().StringVar(&askPathname, "page", "", "site path the question is asked from (e.g. /services/chatbots)")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(syncCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildStore() (*corpus.Store, error) {
	contentDir := getEnv("CONTENT_DIR", "content")
	baseURL := getEnv("SITE_BASE_URL", "https://aidenkiefer.com")

	loader := corpus.NewLoader(baseURL)
	sources, err := loader.LoadDir(contentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load content from %s: %w", contentDir, err)
	}
	return corpus.Build(sources), nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return err
	}

	fmt.Printf("Pages:   %d\n", len(store.Sources()))
	fmt.Printf("Chunks:  %d\n", store.Len())
	fmt.Printf("Dropped: %d empty sections\n", store.Dropped())
	fmt.Println()
	for _, src := range store.Sources() {
		fmt.Printf("  %-40s %s\n", src.PathHint, src.Title)
	}

	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]

	store, err := buildStore()
	if err != nil {
		return err
	}
	retriever := retrieval.NewRetriever(store)

	var page *retrieval.PageContext
	if askPathname != "" {
		page = &retrieval.PageContext{Pathname: askPathname}
	}

	results, err := retriever.RetrieveRelevantChunks(question, page)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if !retrieval.HasHighConfidence(results) {
		canned := retrieval.LowConfidenceResponse(question, page)
		return printJSON(canned)
	}

	contextBlock := retrieval.FormatContextForLLM(results)
	allowed := retrieval.ExtractCitations(results)

	generator := generate.NewGenerator(llm.ConfigFromEnv(), slog.Default())
	resp, err := generator.CallLLMWithContext(ctx, []llm.Message{
		{Role: "user", Content: question},
	}, contextBlock, allowed, page)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	return printJSON(resp)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	owner := getEnv("GITHUB_OWNER", "aidenkiefer")
	repo := getEnv("GITHUB_REPO", "aidenkiefer.com")
	repoPath := getEnv("GITHUB_PATH", "content")
	contentDir := getEnv("CONTENT_DIR", "content")

	fmt.Printf("Syncing %s/%s:%s -> %s\n", owner, repo, repoPath, contentDir)

	client, err := ghclient.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("Failed to create GitHub client: %w", err)
	}
	mirror := ghclient.NewMirror(client, owner, repo, repoPath)

	written, err := mirror.Sync(ctx, contentDir)
	if err != nil {
		return fmt.Errorf("Sync failed after %d files: %w", written, err)
	}

	sha, err := mirror.LatestCommitSHA(ctx)
	if err != nil {
		// Commit SHA is informational only
		sha = "unknown"
	}

	store, err := buildStore()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Sync complete!")
	fmt.Printf("  Files:    %d\n", written)
	fmt.Printf("  Pages:    %d\n", len(store.Sources()))
	fmt.Printf("  Chunks:   %d\n", store.Len())
	fmt.Printf("  Commit:   %s\n", sha)
	fmt.Printf("  Duration: %s\n", time.Since(start).Round(time.Second))

	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
