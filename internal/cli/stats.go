package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"docseek/internal/adapter/store"
	"docseek/internal/domain"
)

var (
	statsTop  int
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <index-file>",
	Short: "Summarize an index without re-reading the documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "documents to list, by unique terms (0 = all)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	indexPath := args[0]
	out := cmd.OutOrStdout()

	st, err := store.ForPath(indexPath, cfg.Index.Format)
	if err != nil {
		return err
	}
	idx, err := st.Load(indexPath)
	if err != nil {
		return err
	}

	stats := idx.Stats()
	docs := append([]domain.DocStats(nil), stats.PerDocument...)
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UniqueTerms > docs[j].UniqueTerms
	})
	if statsTop > 0 && len(docs) > statsTop {
		docs = docs[:statsTop]
	}

	if statsJSON {
		stats.PerDocument = docs
		output, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(output))
		return nil
	}

	fmt.Fprintf(out, "Index: %s\n", indexPath)
	fmt.Fprintf(out, "  Documents:    %d\n", stats.Documents)
	fmt.Fprintf(out, "  Unique terms: %d\n", stats.Terms)
	fmt.Fprintf(out, "  Tokens:       %d\n", stats.Tokens)
	if len(docs) > 0 {
		fmt.Fprintf(out, "\nDocuments by unique terms:\n")
		for _, d := range docs {
			fmt.Fprintf(out, "  %6d %8d  %s\n", d.UniqueTerms, d.TotalTokens, d.Path)
		}
	}
	return nil
}
