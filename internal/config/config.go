package config

// Config represents the full application configuration.
type Config struct {
	Lint          LintConfig          `yaml:"lint"`
	Fix           FixConfig           `yaml:"fix"`
	Changelog     ChangelogConfig     `yaml:"changelog"`
	Git           GitConfig           `yaml:"git"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// LintConfig configures the external documentation linter.
type LintConfig struct {
	// Script is the shell script whose stderr carries the diagnostics.
	Script string `yaml:"script"`

	// Dir is the working directory the script runs in.
	Dir string `yaml:"dir"`
}

// FixConfig configures the fix runner.
type FixConfig struct {
	// Dedup collapses repeated diagnostics before fixing.
	Dedup bool `yaml:"dedup"`

	// Scan windows for locating the doc-block terminator above a reported
	// line. Zero means the built-in default.
	GenericWindow int `yaml:"genericWindow"`
	ReturnWindow  int `yaml:"returnWindow"`
	CommentWindow int `yaml:"commentWindow"`
}

// ChangelogConfig configures changelog generation.
type ChangelogConfig struct {
	// Repository is the owner/name used for commit and issue links.
	// Empty disables link fabrication.
	Repository string `yaml:"repository"`

	// Output is the directory changelog reports are written to.
	Output string `yaml:"output"`
}

type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
}

// StoreConfig configures the persistence layer.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, warning, error
	Format  string `yaml:"format"` // json, human
}

// Merge combines multiple configuration instances, prioritising the latter ones.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	result.Lint = chooseLint(base.Lint, overlay.Lint)
	result.Fix = chooseFix(base.Fix, overlay.Fix)
	result.Changelog = chooseChangelog(base.Changelog, overlay.Changelog)
	result.Git = chooseGit(base.Git, overlay.Git)
	result.Store = chooseStore(base.Store, overlay.Store)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)

	return result
}

func chooseLint(base, overlay LintConfig) LintConfig {
	if overlay.Script != "" || overlay.Dir != "" {
		return overlay
	}
	return base
}

func chooseFix(base, overlay FixConfig) FixConfig {
	if overlay.Dedup || overlay.GenericWindow != 0 || overlay.ReturnWindow != 0 || overlay.CommentWindow != 0 {
		return overlay
	}
	return base
}

func chooseChangelog(base, overlay ChangelogConfig) ChangelogConfig {
	if overlay.Repository != "" || overlay.Output != "" {
		return overlay
	}
	return base
}

func chooseGit(base, overlay GitConfig) GitConfig {
	if overlay.RepositoryDir != "" {
		return overlay
	}
	return base
}

func chooseStore(base, overlay StoreConfig) StoreConfig {
	if overlay.Enabled || overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	result := base

	if overlay.Logging.Enabled || overlay.Logging.Level != "" || overlay.Logging.Format != "" {
		result.Logging = overlay.Logging
	}

	return result
}
