package orchestrator

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/surycat/pkgship/model"
	"github.com/surycat/pkgship/service/output"
	"github.com/surycat/pkgship/service/sdist"
	"github.com/surycat/pkgship/service/storage"
	"github.com/surycat/pkgship/service/upload"
	"github.com/surycat/pkgship/service/version"
)

// Pipeline step names.
const (
	StepCredentials = "credentials"
	StepStamp       = "stamp"
	StepSdist       = "sdist"
	StepUpload      = "upload"
)

// Service is the interface for the release orchestrator.
type Service interface {
	Release(ctx context.Context, req model.ReleaseRequest) (*model.ReleaseReport, error)
}

type service struct {
	versions version.Service
	sdists   sdist.Service
	uploads  upload.Service
	history  storage.Service
	outputs  output.Service
	log      zerolog.Logger
	info     model.VersionInfo
}

// NewService creates a new orchestrator service. The history service may be
// nil when the run is not persisted.
func NewService(
	versions version.Service,
	sdists sdist.Service,
	uploads upload.Service,
	history storage.Service,
	outputs output.Service,
	log zerolog.Logger,
	info model.VersionInfo,
) Service {
	return &service{
		versions: versions,
		sdists:   sdists,
		uploads:  uploads,
		history:  history,
		outputs:  outputs,
		log:      log,
		info:     info,
	}
}
