package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docseek/internal/adapter/cache"
	"docseek/internal/adapter/retriever"
	"docseek/internal/adapter/store"
	"docseek/internal/logging"
	"docseek/internal/metrics"
	"docseek/internal/server"
	"docseek/internal/usecase"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <index-file>",
	Short: "Serve queries against an index over HTTP",
	Long: `Load an index once and answer queries over HTTP until interrupted.

Endpoints:
  GET  /api/search?q=...&limit=N
  POST /api/search?limit=N      (query text in the body)
  GET  /api/stats
  GET  /healthz
  GET  /metrics`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	indexPath := args[0]

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	st, err := store.ForPath(indexPath, cfg.Index.Format)
	if err != nil {
		return err
	}

	var queryCache *cache.QueryCache
	if cfg.Server.CacheSize > 0 {
		queryCache = cache.NewQueryCache(cfg.Server.CacheSize, cfg.Server.CacheTTL)
	}

	searcher, err := usecase.OpenSearcher(st, indexPath, retriever.NewTFIDFRanker(cfg.Search.IDFSmoothing), queryCache)
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	srv := server.New(server.Config{
		Addr:            addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		DefaultLimit:    cfg.Search.Limit,
		MaxLimit:        cfg.Search.MaxLimit,
	}, searcher, metrics.New())

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d documents from %s on %s\n", searcher.Documents(), indexPath, addr)
	err = srv.Run(cmd.Context())
	if queryCache != nil {
		hits, misses := queryCache.Stats()
		logging.WithComponent("serve").Info("query cache",
			"hits", hits,
			"misses", misses,
			"entries", queryCache.Size(),
		)
	}
	return err
}
