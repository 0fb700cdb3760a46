package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docseek/internal/adapter/retriever"
	"docseek/internal/adapter/store"
	"docseek/internal/domain"
	"docseek/internal/usecase"
)

var (
	searchLimit   int
	searchJSON    bool
	searchExplain bool
)

var searchCmd = &cobra.Command{
	Use:   "search <index-file> <query...>",
	Short: "Rank the indexed documents for a query",
	Long: `Load an index file and print the documents ordered by TF-IDF relevance
to the query. Remaining arguments are joined into one query.

Examples:
  docseek search index.json glClear
  docseek search index.json "clear the color buffer" -k 5 --json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 0, "number of results (default from config, 0 = all)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.Flags().BoolVar(&searchExplain, "explain", false, "show the per-term tf/idf breakdown of each result")
}

type searchOutput struct {
	Query   string                           `json:"query"`
	Results []domain.ScoredDoc               `json:"results"`
	Explain map[string][]retriever.TermScore `json:"explain,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	indexPath := args[0]
	query := strings.Join(args[1:], " ")
	out := cmd.OutOrStdout()

	limit := cfg.Search.Limit
	if cmd.Flags().Changed("limit") {
		limit = searchLimit
	}

	st, err := store.ForPath(indexPath, cfg.Index.Format)
	if err != nil {
		return err
	}
	searchUC := usecase.NewSearchUseCase(st, retriever.NewTFIDFRanker(cfg.Search.IDFSmoothing))

	var results []domain.ScoredDoc
	var explained map[string][]retriever.TermScore
	if searchExplain {
		results, explained, err = searchUC.SearchExplained(indexPath, query, limit)
	} else {
		results, err = searchUC.Search(indexPath, query, limit)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	result := searchOutput{Query: query, Results: results, Explain: explained}
	if result.Results == nil {
		result.Results = []domain.ScoredDoc{}
	}

	if searchJSON {
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(out, "%3d. %s => %.6f\n", i+1, r.Path, r.Score)
		for _, ts := range result.Explain[r.Path] {
			fmt.Fprintf(out, "       %-20s tf=%.6f df=%d idf=%.6f\n", ts.Term, ts.TF, ts.DF, ts.IDF)
		}
	}
	return nil
}
