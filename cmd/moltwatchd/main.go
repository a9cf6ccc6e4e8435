package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
	cli "github.com/urfave/cli/v2"

	"github.com/moltwatch/moltwatch/deepanalysis"
	"github.com/moltwatch/moltwatch/graph"
	"github.com/moltwatch/moltwatch/handlers"
	"github.com/moltwatch/moltwatch/ingest"
	"github.com/moltwatch/moltwatch/store"
	"github.com/moltwatch/moltwatch/util/cliutil"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "moltwatchd",
		Usage:   "molt feed risk monitoring daemon",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log level (debug, info, warn, error)",
			Value:   "info",
			EnvVars: []string{"MOLTWATCH_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log format (text or json)",
			Value:   "text",
			EnvVars: []string{"MOLTWATCH_LOG_FORMAT", "LOG_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Value:   "sqlite://data/moltwatch/moltwatch.db",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.IntFlag{
			Name:    "max-db-connections",
			Value:   40,
			EnvVars: []string{"MAX_DB_CONNECTIONS"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
		analyzeGraphCmd,
		buildMentionsCmd,
		assessAuthorCmd,
	}

	return app.Run(args)
}

func setupStore(cctx *cli.Context, logger *slog.Logger) (*store.Store, error) {
	db, err := cliutil.SetupDatabase(cctx.String("database-url"), cctx.Int("max-db-connections"))
	if err != nil {
		return nil, err
	}
	return store.NewStore(db, logger)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the collection loop, graph analyzer, deep-analysis worker, and read API",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "feed-host",
			Usage:   "base URL of the feed API to poll",
			Value:   "http://localhost:8080",
			EnvVars: []string{"MOLTWATCH_FEED_HOST"},
		},
		&cli.StringFlag{
			Name:    "feed-api-key",
			Usage:   "bearer token for the feed API",
			EnvVars: []string{"MOLTWATCH_FEED_API_KEY"},
		},
		&cli.DurationFlag{
			Name:    "poll-interval",
			Value:   ingest.DefaultInterval,
			EnvVars: []string{"MOLTWATCH_POLL_INTERVAL"},
		},
		&cli.IntFlag{
			Name:    "page-size",
			Usage:   "posts fetched per poll",
			Value:   ingest.DefaultPageSize,
			EnvVars: []string{"MOLTWATCH_PAGE_SIZE"},
		},
		&cli.IntFlag{
			Name:    "retention-bound",
			Usage:   "max stored low/medium posts before pruning",
			Value:   ingest.DefaultPruneBound,
			EnvVars: []string{"MOLTWATCH_RETENTION_BOUND"},
		},
		&cli.IntFlag{
			Name:    "queue-threshold",
			Usage:   "minimum risk score that queues a post for deep analysis",
			Value:   store.DefaultQueueThreshold,
			EnvVars: []string{"MOLTWATCH_QUEUE_THRESHOLD"},
		},
		&cli.DurationFlag{
			Name:    "graph-interval",
			Value:   graph.DefaultInterval,
			EnvVars: []string{"MOLTWATCH_GRAPH_INTERVAL"},
		},
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for HTTP APIs",
			Value:   ":2510",
			EnvVars: []string{"MOLTWATCH_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":2511",
			EnvVars: []string{"MOLTWATCH_METRICS_LISTEN"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := cliutil.SetupSlog(cctx.String("log-level"), cctx.String("log-format"))

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		st, err := setupStore(cctx, logger)
		if err != nil {
			return fmt.Errorf("setting up store: %w", err)
		}
		st.QueueThreshold = cctx.Int("queue-threshold")

		feed := ingest.NewClient(cctx.String("feed-host"), cctx.String("feed-api-key"), logger)
		ing := ingest.NewIngester(st, feed, logger)
		ing.Interval = cctx.Duration("poll-interval")
		ing.PageSize = cctx.Int("page-size")
		ing.PruneBound = cctx.Int("retention-bound")
		ing.PostURLBase = cctx.String("feed-host")

		runner := graph.NewRunner(st, logger)
		runner.Interval = cctx.Duration("graph-interval")

		worker := deepanalysis.NewWorker(st, nil, logger)

		go ing.Run(ctx)
		go runner.Run(ctx)
		go worker.Run(ctx)

		// metrics endpoint on its own listener
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cctx.String("metrics-listen"), mux); err != nil {
				logger.Error("metrics server failed", "err", err)
			}
		}()

		e := echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())
		e.Use(slogecho.New(logger))
		e.Use(echoprometheus.NewMiddleware("moltwatch"))
		handlers.NewServer(st, logger).RegisterRoutes(e)

		go func() {
			if err := e.Start(cctx.String("bind")); err != nil && err != http.ErrServerClosed {
				logger.Error("http server failed", "err", err)
			}
		}()

		logger.Info("moltwatchd running", "bind", cctx.String("bind"), "feed", cctx.String("feed-host"))

		<-ctx.Done()
		logger.Info("shutting down")

		ing.Stop()
		runner.Stop()
		worker.Stop()

		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		return e.Shutdown(shutCtx)
	},
}

var analyzeGraphCmd = &cli.Command{
	Name:  "analyze-graph",
	Usage: "run a single interaction-graph analysis pass and exit",
	Action: func(cctx *cli.Context) error {
		logger := cliutil.SetupSlog(cctx.String("log-level"), cctx.String("log-format"))

		st, err := setupStore(cctx, logger)
		if err != nil {
			return err
		}
		return graph.NewRunner(st, logger).RunOnce(context.Background())
	},
}

var buildMentionsCmd = &cli.Command{
	Name:  "build-mentions",
	Usage: "backfill interaction edges from @mentions in stored posts",
	Action: func(cctx *cli.Context) error {
		logger := cliutil.SetupSlog(cctx.String("log-level"), cctx.String("log-format"))

		st, err := setupStore(cctx, logger)
		if err != nil {
			return err
		}
		ing := ingest.NewIngester(st, nil, logger)
		created, err := ing.BuildMentionEdges(context.Background())
		if err != nil {
			return err
		}
		logger.Info("mention backfill complete", "edges", created)
		return nil
	},
}

var assessAuthorCmd = &cli.Command{
	Name:      "assess-author",
	Usage:     "ask the chat collaborator for an assessment of one author",
	ArgsUsage: "<author-id>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "chat-url",
			Usage:   "OpenAI-style chat completions endpoint",
			EnvVars: []string{"MOLTWATCH_CHAT_URL"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Value:   "qwen-plus",
			EnvVars: []string{"MOLTWATCH_CHAT_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-api-key",
			EnvVars: []string{"MOLTWATCH_CHAT_API_KEY"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := cliutil.SetupSlog(cctx.String("log-level"), cctx.String("log-format"))

		authorID := cctx.Args().First()
		if authorID == "" {
			return fmt.Errorf("author id is required")
		}

		st, err := setupStore(cctx, logger)
		if err != nil {
			return err
		}

		ctx := context.Background()
		author, err := st.GetAuthor(ctx, authorID)
		if err != nil {
			return fmt.Errorf("looking up author: %w", err)
		}
		posts, err := st.ListPosts(ctx, store.PostFilter{AuthorID: authorID, Limit: 50})
		if err != nil {
			return fmt.Errorf("listing posts: %w", err)
		}

		samples := make([]deepanalysis.PostSample, len(posts))
		for i, p := range posts {
			samples[i] = deepanalysis.PostSample{Content: p.Content, Score: p.RiskScore}
		}

		assessor := deepanalysis.NewChatAssessor(
			cctx.String("chat-url"),
			cctx.String("chat-model"),
			cctx.String("chat-api-key"),
			logger,
		)
		fmt.Println(assessor.AssessAuthor(ctx, author.Name, samples))
		return nil
	},
}
