package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/newswire"
	"github.com/poiesic/newswire/ai"
	"github.com/poiesic/newswire/answer"
	"github.com/poiesic/newswire/backfill"
	"github.com/poiesic/newswire/cache"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/ingest"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/vector"
	"github.com/poiesic/newswire/vector/memory"
	"github.com/poiesic/newswire/vector/qdrant"
	"github.com/urfave/cli/v2"
)

func buildAIConfig(c *cli.Context) *ai.Config {
	chatHost := c.String("chat-host")
	if chatHost == "" {
		chatHost = c.String("embedding-host")
	}
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithChatHost(chatHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithEmbeddingDimensions(c.Int("embedding-dimensions")),
	)
}

func buildIndex(ctx context.Context, c *cli.Context) (vector.Index, error) {
	host := c.String("qdrant-host")
	if host == "" {
		fmt.Fprintln(os.Stderr, "warning: no qdrant host configured, using a non-persistent in-process index")
		return memory.NewIndex(), nil
	}
	return qdrant.NewIndex(ctx, qdrant.Config{
		Host:       host,
		Port:       c.Int("qdrant-port"),
		APIKey:     c.String("qdrant-api-key"),
		UseTLS:     c.Bool("qdrant-tls"),
		Collection: c.String("collection"),
		Dimensions: c.Int("embedding-dimensions"),
	})
}

func buildCache(c *cli.Context) (*cache.Service, error) {
	addr := c.String("redis-addr")
	if addr == "" {
		return cache.NewService()
	}
	remote := cache.NewRedis(addr, c.String("redis-password"), c.Int("redis-db"))
	return cache.NewService(cache.WithRemote(remote))
}

func openNewswire(ctx context.Context, c *cli.Context, opts ...newswire.Option) (*newswire.Newswire, error) {
	index, err := buildIndex(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect vector index: %w", err)
	}

	opts = append([]newswire.Option{
		newswire.WithAIConfig(buildAIConfig(c)),
		newswire.WithVectorIndex(index),
	}, opts...)

	n, err := newswire.New(c.String("db"), opts...)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return n, nil
}

func streamCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []newswire.Option
	if dir := c.String("audit-dir"); dir != "" {
		sink, err := storage.NewFileAuditSink(dir)
		if err != nil {
			return fmt.Errorf("failed to create audit sink: %w", err)
		}
		opts = append(opts, newswire.WithAuditSink(sink))
	}

	n, err := openNewswire(ctx, c, opts...)
	if err != nil {
		return err
	}
	defer n.Close()

	ingestor, err := n.NewStreamIngestor(ingest.WithSource(c.String("source")))
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "following change feed; ctrl-c to stop")
	return ingestor.Run(ctx, n.Articles())
}

func backfillCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n, err := openNewswire(ctx, c)
	if err != nil {
		return err
	}
	defer n.Close()

	config := &backfill.Config{
		BatchSize:         c.Int("batch-size"),
		PageSize:          c.Int("page-size"),
		Category:          c.String("category"),
		EmbedRate:         c.Float64("embed-rate"),
		BatchDelay:        c.Duration("batch-delay"),
		MaxRetries:        c.Int("max-retries"),
		RetryDelay:        c.Duration("retry-delay"),
		MaxRetryDelay:     c.Duration("max-retry-delay"),
		RateLimitCooldown: c.Duration("rate-limit-cooldown"),
		ReportInterval:    c.Int("report-interval"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.PageSize <= 0 {
		return fmt.Errorf("page-size must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reconciler, err := n.NewReconciler(config, os.Stderr)
	if err != nil {
		return err
	}

	stats, err := reconciler.Run(ctx, c.String("cursor"))
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Backfill complete. Scanned %d records in %v (%.1f records/sec): %d indexed, %d failed, %d skipped\n",
		stats.Scanned, stats.Elapsed.Round(time.Second), stats.Throughput,
		stats.Succeeded, stats.Failed, stats.Skipped)
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n, err := openNewswire(ctx, c)
	if err != nil {
		return err
	}
	defer n.Close()

	svc, err := n.NewAnswerService()
	if err != nil {
		return err
	}
	defer svc.Release()

	opts := answer.AskOptions{
		Depth:    core.ParseDepthMode(c.String("depth")),
		Category: c.String("category"),
	}

	return svc.Ask(ctx, question, opts, func(e answer.Event) error {
		switch e.Type {
		case answer.EventSources:
			for i, doc := range e.Sources {
				marker := ""
				if doc.Partial {
					marker = " (archived)"
				}
				fmt.Fprintf(os.Stderr, "[%d] %s%s\n    %s\n", i+1, doc.Title, marker, doc.URL)
			}
			if len(e.Sources) > 0 {
				fmt.Fprintln(os.Stderr)
			}
		case answer.EventChunk:
			fmt.Print(e.Text)
		case answer.EventEnd:
			fmt.Println()
		}
		return nil
	})
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	body, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var items []core.RawItem
	if err := json.Unmarshal(body, &items); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "seed file contains no items")
		return nil
	}

	cacheService, err := buildCache(c)
	if err != nil {
		return err
	}

	n, err := newswire.New(c.String("db"), newswire.WithCache(cacheService))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer n.Close()

	writer, err := n.NewWriter()
	if err != nil {
		return err
	}

	batch := writer.WriteBatch(ctx, items)
	n.Cache().InvalidateCategories(ctx, batch.Categories)

	fmt.Fprintf(os.Stderr, "Seeded %d items: %d written, %d duplicates, %d failed\n",
		len(items), batch.Succeeded, batch.Skipped, batch.Failed)
	return nil
}

// listEntry is the cached wire shape of one listed article.
type listEntry struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()
	category := c.String("category")
	limit := c.Int("limit")
	if limit <= 0 {
		limit = 20
	}

	cacheService, err := buildCache(c)
	if err != nil {
		return err
	}

	key := cache.ListKey(category, time.Now())
	if body, ok := cacheService.Get(ctx, key); ok {
		os.Stdout.Write(body)
		return nil
	}

	n, err := newswire.New(c.String("db"), newswire.WithCache(cacheService))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer n.Close()

	entries := make([]listEntry, 0, limit)
	cursor := ""
	for len(entries) < limit {
		page, err := n.Articles().ScanArticles(ctx, category, cursor, limit)
		if err != nil {
			return err
		}
		for _, record := range page.Articles {
			entries = append(entries, listEntry{
				Title:       record.Title,
				URL:         record.URL,
				Source:      record.Source,
				PublishedAt: record.PublishedAt,
			})
			if len(entries) == limit {
				break
			}
		}
		cursor = page.Cursor
		if cursor == "" {
			break
		}
	}

	body, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	body = append(body, '\n')
	cacheService.Set(ctx, key, body, cache.DefaultTTL)

	os.Stdout.Write(body)
	return nil
}
