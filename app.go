// Package main is the entry point for the pkgship release publisher.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/surycat/pkgship/model"
	"github.com/surycat/pkgship/service/config"
	"github.com/surycat/pkgship/service/flag"
	"github.com/surycat/pkgship/service/orchestrator"
	"github.com/surycat/pkgship/service/output"
	"github.com/surycat/pkgship/service/sdist"
	"github.com/surycat/pkgship/service/storage"
	"github.com/surycat/pkgship/service/upload"
	"github.com/surycat/pkgship/service/version"
	"github.com/surycat/pkgship/shared/banner"
	"github.com/surycat/pkgship/shared/logging"
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "db", "history":
			return runStorageCommand(os.Args[1], os.Args[2:])
		}
	}

	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	versionInfo := model.VersionInfo{Version: buildVersion, Commit: buildCommit, Date: buildDate}

	if flags.ShowVersion {
		fmt.Printf("pkgship %s (commit %s, built %s)\n", versionInfo.Version, versionInfo.Commit, versionInfo.Date)
		return nil
	}

	log := logging.Setup(flags.Verbose)

	versionService := version.NewService()
	releaseVersion, err := versionService.Resolve(flags.VersionArg)
	if err != nil {
		return err
	}

	if flags.Output != "json" {
		banner.DrawBannerTitle()
	}

	configService := config.NewService()
	project, err := configService.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	applyOverrides(project, flags)

	var historyService storage.Service
	if flags.Store {
		historyService, err = storage.NewService(flags.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer historyService.Close()
	}

	outputService := output.NewService(flags.Output)
	orchestratorService := orchestrator.NewService(
		versionService,
		sdist.NewService(),
		upload.NewService(),
		historyService,
		outputService,
		log,
		versionInfo,
	)

	_, err = orchestratorService.Release(context.Background(), model.ReleaseRequest{
		Package:     project.Package,
		Version:     releaseVersion,
		Repository:  project.Repository,
		SourceDir:   project.SourceDir,
		DistDir:     project.DistDir,
		VersionFile: project.VersionFile,
		Include:     project.Include,
		Exclude:     project.Exclude,
		SkipUpload:  flags.SkipUpload,
		DryRun:      flags.DryRun,
	})
	return err
}

func applyOverrides(project *config.Project, flags model.Flags) {
	if flags.Repository != "" {
		project.Repository = flags.Repository
	}
	if flags.SourceDir != "" {
		project.SourceDir = flags.SourceDir
	}
	if flags.DistDir != "" {
		project.DistDir = flags.DistDir
	}
}
