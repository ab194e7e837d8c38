package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/filingvec/internal/core/domain"
)

// snippetLength is the number of characters of chunk text shown per result.
const snippetLength = 240

var (
	searchTopK    int
	searchCompany string
	searchPeriod  string
	searchSource  string
	searchJSON    bool
	statsJSON     bool
	clearYes      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed filings",
	Long: `Ranks indexed chunks by cosine similarity to the query embedding.

At most one filter may be given; it keeps only chunks whose metadata value
matches, ignoring case.

Examples:
  filingvec search "revenue growth drivers"
  filingvec search -n 3 --company "Apple Inc" "services margin"
  filingvec search --json "supply chain risk"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List indexed companies",
	Args:  cobra.NoArgs,
	RunE:  runCompanies,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every indexed chunk",
	Long: `Removes every chunk and embedding from the vector store.

Asks for confirmation on a terminal. Pass --yes to clear non-interactively.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", 0, "number of results (default from search.top_k)")
	searchCmd.Flags().StringVar(&searchCompany, "company", "", "only chunks of this company")
	searchCmd.Flags().StringVar(&searchPeriod, "period", "", "only chunks of this reporting period")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "only chunks of this source file")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(companiesCmd)
	rootCmd.AddCommand(clearCmd)
}

// searchEnvelope is the JSON document printed by search --json.
type searchEnvelope struct {
	Query       string                `json:"query"`
	Results     []domain.SearchResult `json:"results"`
	TotalChunks int                   `json:"total_chunks"`
	Companies   []string              `json:"companies"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	index, err := requireIndex()
	if err != nil {
		return err
	}

	filter, err := domain.SingleFilter(searchCompany, searchPeriod, searchSource)
	if err != nil {
		return err
	}

	topK := searchTopK
	if topK <= 0 {
		topK = defaultTopK()
	}

	query := args[0]
	results, err := index.Search(cmd.Context(), query, domain.SearchOptions{TopK: topK, Filter: filter})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		if results == nil {
			results = []domain.SearchResult{}
		}
		stats, err := index.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}
		return printJSON(cmd, searchEnvelope{
			Query:       query,
			Results:     results,
			TotalChunks: stats.TotalChunks,
			Companies:   stats.Companies,
		})
	}

	outputSearchTable(cmd, results)
	return nil
}

// defaultTopK reads search.top_k, falling back to the built-in default.
func defaultTopK() int {
	if app.Settings == nil {
		return domain.DefaultTopK
	}
	settings, err := app.Settings.Get()
	if err != nil || settings.Search.TopK <= 0 {
		return domain.DefaultTopK
	}
	return settings.Search.TopK
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s %s (%.4f)\n", i+1, r.Company, r.Period, r.Similarity)
		if r.SourceFile != "" {
			cmd.Printf("      Source: %s, chunk %d\n", r.SourceFile, r.Position)
		}
		cmd.Printf("      %s\n", snippet(r.Text, snippetLength))
		cmd.Println()
	}
}

// snippet flattens whitespace and truncates text to n characters.
func snippet(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}

func runStats(cmd *cobra.Command, _ []string) error {
	index, err := requireIndex()
	if err != nil {
		return err
	}

	stats, err := index.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if statsJSON {
		return printJSON(cmd, stats)
	}

	cmd.Printf("Total chunks: %d\n", stats.TotalChunks)
	cmd.Printf("Companies:    %d\n", stats.CompanyCount)
	if stats.Dimensions > 0 {
		cmd.Printf("Dimensions:   %d\n", stats.Dimensions)
	}
	for _, c := range stats.Companies {
		cmd.Printf("  - %s\n", c)
	}
	return nil
}

func runCompanies(cmd *cobra.Command, _ []string) error {
	index, err := requireIndex()
	if err != nil {
		return err
	}

	companies, err := index.Companies(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing companies: %w", err)
	}

	if len(companies) == 0 {
		cmd.Println("No companies indexed.")
		return nil
	}
	for _, c := range companies {
		cmd.Println(c)
	}
	return nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	index, err := requireIndex()
	if err != nil {
		return err
	}

	if !clearYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("%w: refusing to clear without --yes when not on a terminal", domain.ErrInvalidInput)
		}
		stats, err := index.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}
		cmd.Printf("Remove all %d chunks? [y/N]: ", stats.TotalChunks)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := index.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	cmd.Println("Vector store cleared.")
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
