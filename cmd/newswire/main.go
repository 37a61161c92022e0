// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "newswire",
		Usage:  "Financial news ingestion, vector indexing, and question answering",
		Flags:  globalFlags(),
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "stream",
				Usage:  "Follow the article store change feed and index new articles",
				Action: streamCommand,
				Flags: joinFlags(storeFlags(), aiFlags(), qdrantFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:  "audit-dir",
						Usage: "Directory for ingestion audit entries (defaults to <db>/audit)",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source label recorded in audit entries",
						Value: "change-feed",
					},
				}),
			},
			{
				Name:   "backfill",
				Usage:  "Rebuild the vector index from stored articles",
				Action: backfillCommand,
				Flags: joinFlags(storeFlags(), aiFlags(), qdrantFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict the run to one category",
					},
					&cli.StringFlag{
						Name:  "cursor",
						Usage: "Resume from a previous run's cursor",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records per index upsert",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Number of records per store scan page",
						Value: 200,
					},
					&cli.Float64Flag{
						Name:  "embed-rate",
						Usage: "Embedding calls per second (0 = unthrottled)",
					},
					&cli.DurationFlag{
						Name:  "batch-delay",
						Usage: "Pause between index upserts",
						Value: 250 * time.Millisecond,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts per failed upsert",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "max-retry-delay",
						Usage: "Ceiling for exponential backoff",
						Value: 30 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "rate-limit-cooldown",
						Usage: "Minimum wait after a rate-limited failure",
						Value: 15 * time.Second,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
				}),
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from indexed articles",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: joinFlags(storeFlags(), aiFlags(), qdrantFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:  "depth",
						Usage: "Retrieval depth: fast, balanced, or quality",
						Value: "balanced",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict retrieval to one category",
					},
				}),
			},
			{
				Name:   "seed",
				Usage:  "Load raw feed items from a JSON file through the dedup writer",
				Action: seedCommand,
				Flags: joinFlags(storeFlags(), cacheFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a JSON array of raw feed items",
						Required: true,
					},
				}),
			},
			{
				Name:   "list",
				Usage:  "List stored articles for a category, served through the cache",
				Action: listCommand,
				Flags: joinFlags(storeFlags(), cacheFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:     "category",
						Usage:    "Category to list",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of articles",
						Value: 20,
					},
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set logging level (debug, info, warn, error)",
			Value:   "info",
		},
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the BadgerDB database directory",
			Required: true,
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "chat-host",
			Usage: "Chat service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name",
			Value: "gpt-4o-mini",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Provider API key",
			EnvVars: []string{"NEWSWIRE_API_KEY"},
		},
		&cli.IntFlag{
			Name:  "embedding-dimensions",
			Usage: "Embedding vector dimensionality",
			Value: 1536,
		},
	}
}

func qdrantFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "qdrant-host",
			Usage: "Qdrant host (empty runs an in-process index that does not persist)",
			Value: "localhost",
		},
		&cli.IntFlag{
			Name:  "qdrant-port",
			Usage: "Qdrant gRPC port",
			Value: 6334,
		},
		&cli.StringFlag{
			Name:    "qdrant-api-key",
			Usage:   "Qdrant API key",
			EnvVars: []string{"NEWSWIRE_QDRANT_API_KEY"},
		},
		&cli.BoolFlag{
			Name:  "qdrant-tls",
			Usage: "Use TLS for the Qdrant connection",
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Qdrant collection name",
			Value: "newswire-articles",
		},
	}
}

func cacheFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "redis-addr",
			Usage: "Redis address for the shared cache tier (empty runs local-only)",
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			EnvVars: []string{"NEWSWIRE_REDIS_PASSWORD"},
		},
		&cli.IntFlag{
			Name:  "redis-db",
			Usage: "Redis database number",
		},
	}
}

func joinFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, group := range groups {
		flags = append(flags, group...)
	}
	return flags
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
