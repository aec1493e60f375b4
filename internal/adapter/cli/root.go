package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rydnr/jdfix/internal/domain"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// FixRequest carries the resolved options for one fix run.
type FixRequest struct {
	Script string
	Dir    string
	Dedup  bool
	DryRun bool
}

// Fixer defines the dependency required to run the fix command.
type Fixer interface {
	Fix(ctx context.Context, req FixRequest) (domain.RunSummary, error)
}

// ChangelogRequest carries the resolved options for one changelog run.
type ChangelogRequest struct {
	Range      string
	Tag        string
	OutputDir  string
	Repository string
}

// ChangelogWriter defines the dependency required to run the changelog
// command. It returns the path of the written report.
type ChangelogWriter interface {
	WriteChangelog(ctx context.Context, req ChangelogRequest) (string, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Fixer           Fixer
	ChangelogWriter ChangelogWriter
	Args            Arguments
	DefaultScript   string
	DefaultDir      string
	DefaultDedup    bool
	DefaultOutput   string
	DefaultRepo     string
	Version         string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "jdfix",
		Short: "Issue-driven Javadoc fixer and changelog generator",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(fixCommand(deps.Fixer, deps.DefaultScript, deps.DefaultDir, deps.DefaultDedup))
	root.AddCommand(changelogCommand(deps.ChangelogWriter, deps.DefaultOutput, deps.DefaultRepo))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func fixCommand(fixer Fixer, defaultScript, defaultDir string, defaultDedup bool) *cobra.Command {
	var script string
	var dir string
	var dedup bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Collect documentation diagnostics and patch the sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fixer == nil {
				return errors.New("fix command is not configured")
			}

			_, err := fixer.Fix(cmd.Context(), FixRequest{
				Script: resolveString(script, defaultScript),
				Dir:    resolveString(dir, defaultDir),
				Dedup:  dedup,
				DryRun: dryRun,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "Lint script whose stderr carries the diagnostics (default from config)")
	cmd.Flags().StringVar(&dir, "dir", "", "Working directory for the lint script (default from config)")
	cmd.Flags().BoolVar(&dedup, "dedup", defaultDedup, "Collapse repeated diagnostics before fixing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify and locate anchors but skip all writes")

	return cmd
}

func changelogCommand(writer ChangelogWriter, defaultOutput, defaultRepo string) *cobra.Command {
	var tag string
	var outputDir string
	var repository string

	cmd := &cobra.Command{
		Use:   "changelog [range]",
		Short: "Generate a categorized changelog from the commit history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if writer == nil {
				return errors.New("changelog command is not configured")
			}

			var revRange string
			if len(args) > 0 {
				revRange = args[0]
			}

			if defaultOutput == "" {
				defaultOutput = "out"
			}

			path, err := writer.WriteChangelog(cmd.Context(), ChangelogRequest{
				Range:      revRange,
				Tag:        tag,
				OutputDir:  resolveString(outputDir, defaultOutput),
				Repository: resolveString(repository, defaultRepo),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Changelog written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Release tag for the report header")
	cmd.Flags().StringVar(&outputDir, "output", "", "Directory to write the changelog report (default from config)")
	cmd.Flags().StringVar(&repository, "repository", "", "owner/name used for commit and issue links (default from config)")

	return cmd
}

// resolveString returns the override value if non-empty, otherwise the default.
func resolveString(override, defaultValue string) string {
	if override != "" {
		return override
	}
	return defaultValue
}
