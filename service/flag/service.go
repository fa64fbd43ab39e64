// Package flag parses the command line for a release run.
package flag

import (
	"github.com/spf13/pflag"
	"github.com/surycat/pkgship/model"
)

// NewService creates a new flag service.
func NewService() Service {
	return &service{}
}

// GetParsedFlags parses and returns the command-line flags. The first
// positional argument, when present, is the release version.
func (s *service) GetParsedFlags() (model.Flags, error) {
	configPath := pflag.StringP("config-path", "c", "", "Path to pkgship project config file")
	repository := pflag.String("repository", "", "Upload target (index URL or s3://bucket/prefix), overrides config")
	sourceDir := pflag.String("source-dir", "", "Source directory to package, overrides config")
	distDir := pflag.String("dist-dir", "", "Build output directory, overrides config")
	skipUpload := pflag.Bool("skip-upload", false, "Build the distribution without uploading it")
	dryRun := pflag.Bool("dry-run", false, "Run the pipeline without writing credentials or uploading")
	store := pflag.Bool("store", false, "Persist the release run in the local SQLite history")
	dbPath := pflag.String("db-path", "", "Custom SQLite database path (default ~/.pkgship/history.db)")
	output := pflag.StringP("output", "o", "table", "Output format (table or json)")
	verbose := pflag.Bool("verbose", false, "Enable debug logging")
	showVersion := pflag.BoolP("version", "v", false, "Show version information")

	pflag.Parse()

	flags := model.Flags{
		ConfigPath:  *configPath,
		Repository:  *repository,
		SourceDir:   *sourceDir,
		DistDir:     *distDir,
		SkipUpload:  *skipUpload,
		DryRun:      *dryRun,
		Store:       *store,
		DBPath:      *dbPath,
		Output:      *output,
		Verbose:     *verbose,
		ShowVersion: *showVersion,
	}
	if args := pflag.Args(); len(args) > 0 {
		flags.VersionArg = args[0]
	}

	return flags, nil
}
