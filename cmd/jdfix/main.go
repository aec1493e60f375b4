package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rydnr/jdfix/internal/adapter/cli"
	gitadapter "github.com/rydnr/jdfix/internal/adapter/git"
	"github.com/rydnr/jdfix/internal/adapter/lint"
	"github.com/rydnr/jdfix/internal/adapter/observability"
	"github.com/rydnr/jdfix/internal/adapter/output/markdown"
	"github.com/rydnr/jdfix/internal/adapter/store/sqlite"
	"github.com/rydnr/jdfix/internal/config"
	"github.com/rydnr/jdfix/internal/domain"
	"github.com/rydnr/jdfix/internal/usecase/changelog"
	"github.com/rydnr/jdfix/internal/usecase/fix"
	"github.com/rydnr/jdfix/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "jdfix",
		EnvPrefix:   "JDFIX",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	var logger fix.Logger
	if cfg.Observability.Logging.Enabled {
		logger = observability.NewLogger(
			observability.ParseLevel(cfg.Observability.Logging.Level),
			observability.ParseFormat(cfg.Observability.Logging.Format),
		)
	}

	// Initialize store if enabled; a store failure degrades to no history,
	// it never blocks fixing.
	var store fix.Store
	if cfg.Store.Enabled {
		store = openStore(cfg.Store.Path)
		if store != nil {
			defer store.Close()
		}
	}

	fixer := &fixService{
		logger:  logger,
		store:   store,
		windows: cfg.Fix,
	}

	repoDir := cfg.Git.RepositoryDir
	if repoDir == "" {
		repoDir = "."
	}

	// Timestamp function for deterministic output file naming
	nowFunc := func() string {
		return time.Now().UTC().Format("20060102T150405Z")
	}

	changelogger := &changelogService{
		log:       gitadapter.NewLogReader(repoDir),
		generator: changelog.NewGenerator(),
		writer:    markdown.NewWriter(nowFunc),
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Fixer:           fixer,
		ChangelogWriter: changelogger,
		DefaultScript:   cfg.Lint.Script,
		DefaultDir:      cfg.Lint.Dir,
		DefaultDedup:    cfg.Fix.Dedup,
		DefaultOutput:   cfg.Changelog.Output,
		DefaultRepo:     cfg.Changelog.Repository,
		Version:         version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// fixService adapts the fix runner to the CLI port.
type fixService struct {
	logger  fix.Logger
	store   fix.Store
	windows config.FixConfig
}

func (s *fixService) Fix(ctx context.Context, req cli.FixRequest) (domain.RunSummary, error) {
	// Per-fix progress lines only when stdout is a terminal.
	var progress io.Writer
	if fix.IsOutputTerminal() {
		progress = os.Stdout
	}

	runner := fix.NewRunner(fix.RunnerDeps{
		Linter:        lint.NewRunner(req.Script, req.Dir),
		Patcher:       fix.NewPatcher(),
		Logger:        s.logger,
		Store:         s.store,
		Progress:      progress,
		Script:        req.Script,
		Dedup:         req.Dedup,
		DryRun:        req.DryRun,
		GenericWindow: s.windows.GenericWindow,
		ReturnWindow:  s.windows.ReturnWindow,
		CommentWindow: s.windows.CommentWindow,
	})
	return runner.Run(ctx)
}

// changelogService adapts the commit-log reader, the generator, and the
// markdown writer to the CLI port.
type changelogService struct {
	log       *gitadapter.LogReader
	generator *changelog.Generator
	writer    *markdown.Writer
}

func (s *changelogService) WriteChangelog(ctx context.Context, req cli.ChangelogRequest) (string, error) {
	commits, err := s.log.Log(ctx, req.Range)
	if err != nil {
		return "", fmt.Errorf("read commit log: %w", err)
	}

	tag := req.Tag
	if tag == "" {
		tag = "unreleased"
	}

	content := s.generator.Generate(changelog.Request{
		Tag:        tag,
		Repository: req.Repository,
		RangeDesc:  rangeDescription(req.Range),
		Commits:    commits,
	})

	return s.writer.Write(ctx, markdown.Artifact{
		OutputDir:  req.OutputDir,
		Repository: req.Repository,
		Tag:        tag,
		Content:    content,
	})
}

// rangeDescription renders the rev range for the report header.
func rangeDescription(revRange string) string {
	if revRange == "" {
		return "in full history"
	}
	if base, _, ok := strings.Cut(revRange, ".."); ok && base != "" {
		return "since " + base
	}
	return "from " + revRange
}

// openStore opens the history database, creating its directory first.
// Any failure is reported as a warning and disables persistence.
func openStore(path string) fix.Store {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("warning: failed to create store directory: %v", err)
		return nil
	}
	s, err := sqlite.NewStore(path)
	if err != nil {
		log.Printf("warning: failed to initialize store: %v", err)
		return nil
	}
	return s
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "jdfix"))
	}
	return paths
}
