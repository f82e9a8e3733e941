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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/talentmatch"
	"github.com/poiesic/talentmatch/batch"
	"github.com/poiesic/talentmatch/config"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/match"
	"github.com/poiesic/talentmatch/reembed"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "talentmatch",
		Usage: "Hybrid candidate and job matching",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"TALENTMATCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides storage.path)",
				EnvVars: []string{"TALENTMATCH_DB"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for hosted embedding and extraction services",
				EnvVars: []string{"TALENTMATCH_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"},
			},
		},
		Before: func(c *cli.Context) error {
			if err := loadEnv(".env"); err != nil {
				return err
			}
			return setupLogger(c)
		},
		Commands: []*cli.Command{
			{
				Name:   "match",
				Usage:  "Rank jobs for a candidate or candidates for a job",
				Action: matchCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "candidate", Usage: "Candidate id (ranks active jobs)"},
					&cli.Uint64Flag{Name: "job", Usage: "Job id (ranks candidates)"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum results (default from config)"},
					&cli.Float64Flag{Name: "min-score", Usage: "Minimum final score in [0,1] (default from config)"},
					&cli.IntFlag{Name: "shortlist", Usage: "Lexical shortlist size (default from config)"},
					&cli.BoolFlag{Name: "dry-run", Usage: "Do not persist results"},
				},
			},
			{
				Name:   "batch",
				Usage:  "Match every entity of the corpus in paced chunks",
				Action: batchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "direction",
						Usage: "candidate-to-jobs or job-to-candidates",
						Value: "candidate-to-jobs",
					},
					&cli.IntFlag{Name: "chunk-size", Usage: "Entities per chunk (default from config)"},
					&cli.DurationFlag{Name: "chunk-delay", Usage: "Minimum interval between chunks (default from config)"},
					&cli.IntFlag{Name: "concurrency", Usage: "Entities matched at once (default from config)"},
					&cli.Float64Flag{Name: "min-score", Usage: "Minimum final score in [0,1] (default from config)"},
				},
			},
			{
				Name:      "import",
				Usage:     "Import candidates and jobs from a YAML corpus file",
				ArgsUsage: "FILE",
				Action:    importCommand,
			},
			{
				Name:      "ingest-resume",
				Usage:     "Extract candidate profiles from plain-text resumes",
				ArgsUsage: "FILE...",
				Action:    ingestResumeCommand,
			},
			{
				Name:   "matches",
				Usage:  "List stored matches for a candidate or job",
				Action: matchesCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "candidate", Usage: "Candidate id"},
					&cli.Uint64Flag{Name: "job", Usage: "Job id"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum results, 0 for all"},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the lexical index from stored records",
				Action: reindexCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all candidates and jobs with the configured model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}
}

// loadEnv reads variables from path when it exists.
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if db := c.String("db"); db != "" {
		cfg.Storage.Path = db
	}
	if key := c.String("api-key"); key != "" && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = key
	}
	return cfg, nil
}

func openDatabase(c *cli.Context) (*talentmatch.Database, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	db, err := talentmatch.NewDatabase("", talentmatch.WithConfig(cfg), talentmatch.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// queryFlags resolves the --candidate/--job pair to a query id and direction.
func queryFlags(c *cli.Context) (core.ID, core.Direction, error) {
	candidate, job := c.Uint64("candidate"), c.Uint64("job")
	switch {
	case candidate != 0 && job != 0:
		return 0, 0, fmt.Errorf("only one of --candidate and --job may be given")
	case candidate != 0:
		return core.ID(candidate), core.CandidateToJobs, nil
	case job != 0:
		return core.ID(job), core.JobToCandidates, nil
	}
	return 0, 0, fmt.Errorf("one of --candidate or --job is required")
}

func parseDirection(s string) (core.Direction, error) {
	switch strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s))) {
	case "candidate_to_jobs", "candidate", "candidates":
		return core.CandidateToJobs, nil
	case "job_to_candidates", "job", "jobs":
		return core.JobToCandidates, nil
	}
	return 0, fmt.Errorf("unknown direction %q: must be candidate-to-jobs or job-to-candidates", s)
}

func requestOptions(c *cli.Context) []match.RequestOption {
	var opts []match.RequestOption
	if c.IsSet("limit") {
		opts = append(opts, match.WithLimit(c.Int("limit")))
	}
	if c.IsSet("min-score") {
		opts = append(opts, match.WithMinScore(c.Float64("min-score")))
	}
	if c.IsSet("shortlist") {
		opts = append(opts, match.WithShortlist(c.Int("shortlist")))
	}
	if c.Bool("dry-run") {
		opts = append(opts, match.WithDryRun())
	}
	return opts
}

func matchCommand(c *cli.Context) error {
	id, direction, err := queryFlags(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine := db.Engine()
	req := engine.NewRequest(id, direction, requestOptions(c)...)
	report, err := engine.FindMatchesWithReport(c.Context, req, nil)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	for _, d := range report.Degradations {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}
	if report.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d pairs could not be scored\n", report.Skipped)
	}
	return printResults(c.App.Writer, report.Results)
}

func batchCommand(c *cli.Context) error {
	direction, err := parseDirection(c.String("direction"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []batch.Option{batch.WithProgress(os.Stderr)}
	if c.IsSet("chunk-size") {
		opts = append(opts, batch.WithChunkSize(c.Int("chunk-size")))
	}
	if c.IsSet("chunk-delay") {
		opts = append(opts, batch.WithChunkDelay(c.Duration("chunk-delay")))
	}
	if c.IsSet("concurrency") {
		opts = append(opts, batch.WithConcurrency(c.Int("concurrency")))
	}
	if c.IsSet("min-score") {
		opts = append(opts, batch.WithRequestOptions(match.WithMinScore(c.Float64("min-score"))))
	}

	runner, err := db.NewBatchRunner(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx, direction)
	if summary != nil {
		printSummary(c.App.Writer, summary)
	}
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}
	return nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one corpus file")
	}
	corpus, err := readCorpus(c.Args().First())
	if err != nil {
		return err
	}

	candidates := make([]*core.CandidateProfile, len(corpus.Candidates))
	for i, e := range corpus.Candidates {
		candidates[i] = e.toCandidate()
	}
	jobs := make([]*core.JobPosting, len(corpus.Jobs))
	for i, e := range corpus.Jobs {
		if jobs[i], err = e.toJob(); err != nil {
			return err
		}
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	savedJobs, err := pipeline.SaveJobs(c.Context, jobs...)
	if err != nil {
		return fmt.Errorf("importing jobs: %w", err)
	}
	savedCandidates, err := pipeline.SaveCandidates(c.Context, candidates...)
	if err != nil {
		return fmt.Errorf("importing candidates: %w", err)
	}
	pipeline.Wait()

	fmt.Fprintf(c.App.Writer, "Imported %d jobs and %d candidates\n", len(savedJobs), len(savedCandidates))
	return nil
}

func ingestResumeCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one resume file is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	var failed int
	for _, path := range c.Args().Slice() {
		text, err := os.ReadFile(path)
		if err != nil {
			slog.Error("failed to read resume", "path", path, "err", err)
			failed++
			continue
		}
		candidate, err := pipeline.IngestResume(c.Context, string(text))
		if err != nil {
			slog.Error("failed to ingest resume", "path", path, "err", err)
			failed++
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s\t%d\t%s\n", path, candidate.Id, candidate.Headline)
	}
	pipeline.Wait()

	if failed > 0 {
		return fmt.Errorf("%d of %d resumes failed", failed, c.NArg())
	}
	return nil
}

func matchesCommand(c *cli.Context) error {
	id, direction, err := queryFlags(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.MatchRepository().ListMatches(c.Context, direction, id, c.Int("limit"))
	if err != nil {
		return err
	}
	return printResults(c.App.Writer, results)
}

func reindexCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.RebuildIndex(c.Context)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Indexed %d documents\n", n)
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	// Create reembedding config
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	reembedder, err := db.NewReembedder(reembedConfig, os.Stderr)
	if err != nil {
		return err
	}

	cfg := db.Config()
	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(os.Stderr, "Embedding backend: %s\n", cfg.AI.Backend)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if _, err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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
