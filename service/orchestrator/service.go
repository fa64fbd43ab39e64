// Package orchestrator assembles the release pipeline and drives a run
// end to end: credentials, version stamp, source distribution, upload.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/surycat/pkgship/model"
	"github.com/surycat/pkgship/service/config"
	"github.com/surycat/pkgship/service/output"
	"github.com/surycat/pkgship/service/pipeline"
	"github.com/surycat/pkgship/service/sdist"
	"github.com/surycat/pkgship/service/storage"
	"github.com/surycat/pkgship/service/upload"
	"github.com/surycat/pkgship/shared/spinner"
)

// Release runs the full pipeline for the given request. Build and upload
// failures are not retried; they surface in the report and as the returned
// error.
func (s *service) Release(ctx context.Context, req model.ReleaseRequest) (*model.ReleaseReport, error) {
	tmpl, state, err := s.buildTemplate(req)
	if err != nil {
		return nil, err
	}
	runner, err := pipeline.NewRunner(tmpl)
	if err != nil {
		return nil, err
	}

	if s.outputs != nil && s.outputs.Format() == output.FormatTable {
		spinner.StartSpinner(fmt.Sprintf("Releasing %s %s...", req.Package, req.Version))
	}
	pipeReport, runErr := runner.Run(ctx)
	spinner.StopSpinner()
	if pipeReport == nil {
		return nil, runErr
	}

	report := s.buildReport(req, pipeReport, state, runErr)
	s.persist(ctx, req, report)
	if s.outputs != nil {
		if err := s.outputs.RenderReport(report); err != nil {
			s.log.Error().Err(err).Msg("failed to render release report")
		}
	}
	return report, runErr
}

// releaseState carries artifacts produced by earlier steps to later ones.
type releaseState struct {
	creds   *config.Credentials
	archive *sdist.Archive
}

func (s *service) buildTemplate(req model.ReleaseRequest) (*pipeline.Template, *releaseState, error) {
	state := &releaseState{}
	tmpl := pipeline.NewTemplate()

	steps := []struct {
		name string
		fn   pipeline.StepFunc
	}{
		{StepCredentials, func(ctx context.Context) error { return s.runCredentials(req, state) }},
		{StepStamp, func(ctx context.Context) error { return s.runStamp(req) }},
		{StepSdist, func(ctx context.Context) error { return s.runSdist(ctx, req, state) }},
		{StepUpload, func(ctx context.Context) error { return s.runUpload(ctx, req, state) }},
	}
	for _, step := range steps {
		if err := tmpl.AddStep(step.name, step.fn); err != nil {
			return nil, nil, err
		}
	}
	links := [][2]string{
		{StepCredentials, StepStamp},
		{StepStamp, StepSdist},
		{StepSdist, StepUpload},
	}
	for _, link := range links {
		if err := tmpl.Link(link[0], link[1]); err != nil {
			return nil, nil, err
		}
	}
	return tmpl, state, nil
}

func (s *service) runCredentials(req model.ReleaseRequest, state *releaseState) error {
	creds, err := config.CredentialsFromEnv()
	if err != nil {
		return err
	}
	if creds == nil {
		s.log.Debug().Msg("no index credentials in environment, skipping credentials file")
		return nil
	}
	state.creds = creds
	if req.DryRun {
		s.log.Info().Msg("dry-run: credentials file not written")
		return nil
	}
	path, err := config.WritePypirc("", req.Repository, creds)
	if err != nil {
		return err
	}
	s.log.Debug().Str("path", path).Msg("credentials file written")
	return nil
}

func (s *service) runStamp(req model.ReleaseRequest) error {
	if err := s.versions.Stamp(req.VersionFile, req.Version); err != nil {
		return err
	}
	s.log.Debug().Str("file", req.VersionFile).Str("version", req.Version).Msg("version stamped")
	return nil
}

func (s *service) runSdist(ctx context.Context, req model.ReleaseRequest, state *releaseState) error {
	archive, err := s.sdists.Build(ctx, sdist.BuildInput{
		Package:   req.Package,
		Version:   req.Version,
		SourceDir: req.SourceDir,
		DistDir:   req.DistDir,
		Include:   req.Include,
		Exclude:   req.Exclude,
	})
	if err != nil {
		return err
	}
	state.archive = archive
	s.log.Debug().Str("archive", archive.Path).Int("files", archive.FileCount).Msg("source distribution built")
	return nil
}

func (s *service) runUpload(ctx context.Context, req model.ReleaseRequest, state *releaseState) error {
	if req.SkipUpload {
		s.log.Info().Msg("upload skipped")
		return nil
	}
	if req.DryRun {
		s.log.Info().Str("repository", req.Repository).Msg("dry-run: upload not performed")
		return nil
	}
	if state.archive == nil {
		return fmt.Errorf("no archive available for upload")
	}
	result, err := s.uploads.Upload(ctx, upload.Input{
		ArchivePath: state.archive.Path,
		Package:     req.Package,
		Version:     req.Version,
		Repository:  req.Repository,
		Credentials: state.creds,
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("destination", result.Destination).Msg("archive uploaded")
	return nil
}

func (s *service) buildReport(req model.ReleaseRequest, pipeReport *pipeline.Report, state *releaseState, runErr error) *model.ReleaseReport {
	report := &model.ReleaseReport{
		RunID:      pipeReport.RunID,
		Package:    req.Package,
		Version:    req.Version,
		Repository: req.Repository,
		Status:     model.RunSucceeded,
		StartedAt:  pipeReport.StartedAt,
		FinishedAt: pipeReport.FinishedAt,
	}
	if runErr != nil {
		report.Status = model.RunFailed
	}
	if state.archive != nil {
		report.ArchivePath = state.archive.Path
		report.ArchiveSize = state.archive.Size
	}
	for _, step := range pipeReport.Steps {
		sr := model.StepReport{
			Name:       step.Name,
			State:      step.State,
			StartedAt:  step.StartedAt,
			FinishedAt: step.FinishedAt,
		}
		if step.Err != nil {
			sr.Error = step.Err.Error()
		}
		report.Steps = append(report.Steps, sr)
	}
	return report
}

func (s *service) persist(ctx context.Context, req model.ReleaseRequest, report *model.ReleaseReport) {
	if s.history == nil {
		return
	}
	input := storage.SaveRunInput{
		RunUUID:     report.RunID,
		Package:     report.Package,
		Version:     report.Version,
		Repository:  report.Repository,
		ArchivePath: report.ArchivePath,
		ArchiveSize: report.ArchiveSize,
		Duration:    report.Duration(),
		Status:      report.Status,
		CLIVersion:  s.info.Version,
	}
	for _, step := range report.Steps {
		input.Steps = append(input.Steps, storage.StepRecord{
			Name:       step.Name,
			State:      step.State,
			Error:      step.Error,
			StartedAt:  step.StartedAt,
			FinishedAt: step.FinishedAt,
		})
	}
	if _, err := s.history.SaveRun(ctx, input); err != nil {
		s.log.Error().Err(err).Msg("failed to store release run")
	}
}
