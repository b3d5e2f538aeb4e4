package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/logging"
	"github.com/dmitrijs2005/dailyword/internal/server/models"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/repomanager"
)

type passageSource interface {
	Passage(ctx context.Context, osis string, code string) (string, error)
}

type versionAuthority interface {
	IsAuthorized(v *models.Version) bool
	FindVersionByCode(code string) (*models.Version, error)
}

// PassageService returns passage text, serving from the persisted cache
// where it can. Independent resolutions are not serialized; two requests
// for the same uncached pair may both reach the provider.
type PassageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	source      passageSource
	versions    versionAuthority
	logger      logging.Logger
}

func NewPassageService(db *sql.DB, m repomanager.RepositoryManager, source passageSource, versions versionAuthority, logger logging.Logger) *PassageService {
	return &PassageService{
		db:          db,
		repomanager: m,
		source:      source,
		versions:    versions,
		logger:      logger.With("module", "passages"),
	}
}

// ResolvePassage returns the text of reading in version. A cache miss is
// fetched from the provider and stored; a stored entry is never replaced.
func (s *PassageService) ResolvePassage(ctx context.Context, reading *models.Reading, version *models.Version) (string, error) {
	if reading == nil || reading.ID == 0 || reading.Reference == "" {
		return "", fmt.Errorf("unresolved reading: %w", common.ErrPrecondition)
	}
	if version == nil || version.ID == 0 || version.Code == "" {
		return "", fmt.Errorf("unresolved version: %w", common.ErrPrecondition)
	}
	if !s.versions.IsAuthorized(version) {
		return "", fmt.Errorf("%s: %w", version.Code, common.ErrUnlicensedVersion)
	}

	repo := s.repomanager.Passages(s.db)

	cached, err := repo.Find(ctx, reading.ID, version.ID)
	if err == nil {
		return cached.Content, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return "", fmt.Errorf("passage lookup: %w", err)
	}

	content, err := s.source.Passage(ctx, reading.Reference, version.Code)
	if err != nil {
		return "", fmt.Errorf("fetch %s %s: %w", reading.Reference, version.Code, err)
	}

	err = repo.Create(ctx, &models.Passage{ReadingID: reading.ID, VersionID: version.ID, Content: content})
	switch {
	case err == nil:
		s.logger.Debug(ctx, "passage cached", "reading_id", reading.ID, "version", version.Code)
	case errors.Is(err, common.ErrAlreadyExists):
		stored, err := repo.Find(ctx, reading.ID, version.ID)
		if err != nil {
			s.logger.Error(ctx, "re-reading cached passage failed", "reading_id", reading.ID, "version", version.Code, "error", err)
			return content, nil
		}
		return stored.Content, nil
	default:
		s.logger.Error(ctx, "caching passage failed", "reading_id", reading.ID, "version", version.Code, "error", err)
	}

	return content, nil
}

// FetchPassage fetches reference in the version with code straight from the
// provider. Nothing is cached.
func (s *PassageService) FetchPassage(ctx context.Context, versionCode, reference string) (string, error) {
	if reference == "" {
		return "", fmt.Errorf("empty reference: %w", common.ErrPrecondition)
	}
	v, err := s.versions.FindVersionByCode(versionCode)
	if err != nil {
		return "", err
	}
	content, err := s.source.Passage(ctx, reference, v.Code)
	if err != nil {
		return "", fmt.Errorf("fetch %s %s: %w", reference, v.Code, err)
	}
	return content, nil
}

// Reading returns the reading with id.
func (s *PassageService) Reading(ctx context.Context, id int64) (*models.Reading, error) {
	r, err := s.repomanager.Readings(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading %d: %w", id, err)
	}
	return r, nil
}

// DailyPassage resolves the reading scheduled for date in version.
func (s *PassageService) DailyPassage(ctx context.Context, date time.Time, version *models.Version) (*models.Reading, string, error) {
	reading, err := s.repomanager.Readings(s.db).FindByDate(ctx, date)
	if err != nil {
		return nil, "", fmt.Errorf("reading for %s: %w", date.Format(time.DateOnly), err)
	}
	content, err := s.ResolvePassage(ctx, reading, version)
	if err != nil {
		return nil, "", err
	}
	return reading, content, nil
}
