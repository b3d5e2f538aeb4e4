package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/logging"
	"github.com/dmitrijs2005/dailyword/internal/server/models"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/repomanager"
)

type translationLister interface {
	ListAuthorizedTranslations(ctx context.Context) ([]models.Translation, error)
}

type versionReconciler interface {
	Reconcile(ctx context.Context, translations []models.Translation) (*Reconciliation, error)
}

type versionInfoSource interface {
	TranslationInfo(ctx context.Context, code string) (*models.VersionInfo, error)
}

// VersionService answers which versions may be served and which one a
// request should use. It is usable only after Load succeeds; see
// StartVersionService.
//
// The returned *models.Version values are shared and must not be modified.
type VersionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	directory   translationLister
	reconciler  versionReconciler
	info        versionInfoSource
	logger      logging.Logger

	mu       sync.RWMutex
	ordered  []*models.Version
	byCode   map[string]*models.Version
	byID     map[int64]*models.Version
	fallback *models.Version
}

func NewVersionService(db *sql.DB, m repomanager.RepositoryManager, directory translationLister,
	reconciler versionReconciler, info versionInfoSource, logger logging.Logger) *VersionService {
	return &VersionService{
		db:          db,
		repomanager: m,
		directory:   directory,
		reconciler:  reconciler,
		info:        info,
		logger:      logger.With("module", "versions"),
		byCode:      map[string]*models.Version{},
		byID:        map[int64]*models.Version{},
	}
}

// StartVersionService builds a VersionService and loads it.
func StartVersionService(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager, directory translationLister,
	reconciler versionReconciler, info versionInfoSource, logger logging.Logger) (*VersionService, error) {
	s := NewVersionService(db, m, directory, reconciler, info, logger)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load fetches the catalog, reconciles it against local rows and swaps in the
// result. On error the previous state is kept.
func (s *VersionService) Load(ctx context.Context) error {
	translations, err := s.directory.ListAuthorizedTranslations(ctx)
	if err != nil {
		return fmt.Errorf("load versions: %w", err)
	}

	rec, err := s.reconciler.Reconcile(ctx, translations)
	if err != nil {
		return fmt.Errorf("load versions: %w", err)
	}

	byCode := make(map[string]*models.Version, len(rec.Versions))
	byID := make(map[int64]*models.Version, len(rec.Versions))
	for _, v := range rec.Versions {
		byCode[v.Code] = v
		byID[v.ID] = v
	}

	s.mu.Lock()
	s.ordered = rec.Versions
	s.byCode = byCode
	s.byID = byID
	s.fallback = rec.Default
	s.mu.Unlock()

	s.logger.Info(ctx, "versions loaded", "count", len(rec.Versions), "default", rec.Default.Code, "fallback", rec.Fallback)
	return nil
}

// GetAuthorizedVersions returns the licensed versions in catalog order.
func (s *VersionService) GetAuthorizedVersions() []*models.Version {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ordered)
}

// DefaultVersion returns the reconciled default, or nil before Load.
func (s *VersionService) DefaultVersion() *models.Version {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback
}

// FindVersionByCode returns common.ErrUnlicensedVersion for codes outside the
// licensed set.
func (s *VersionService) FindVersionByCode(code string) (*models.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%s: %w", code, common.ErrUnlicensedVersion)
	}
	return v, nil
}

func (s *VersionService) FindVersionByID(id int64) (*models.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("version %d: %w", id, common.ErrUnlicensedVersion)
	}
	return v, nil
}

// IsAuthorized reports whether v is one of the licensed versions.
func (s *VersionService) IsAuthorized(v *models.Version) bool {
	if v == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	known, ok := s.byID[v.ID]
	return ok && known.Code == v.Code
}

// GetVersionInfo returns the provider's attribution for a licensed version.
func (s *VersionService) GetVersionInfo(ctx context.Context, code string) (*models.VersionInfo, error) {
	if _, err := s.FindVersionByCode(code); err != nil {
		return nil, err
	}
	info, err := s.info.TranslationInfo(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("version info %s: %w", code, err)
	}
	return info, nil
}

// ResolveVersion picks the version for a request: the explicit code when it is
// licensed, then the user's stored preference when it is licensed, then the
// default. userID may be empty for anonymous requests.
func (s *VersionService) ResolveVersion(ctx context.Context, code string, userID string) (*models.Version, error) {
	if code != "" {
		if v, err := s.FindVersionByCode(code); err == nil {
			return v, nil
		}
		s.logger.Debug(ctx, "requested version not licensed", "code", code)
	}

	if userID != "" {
		if v := s.preferredVersion(ctx, userID); v != nil {
			return v, nil
		}
	}

	if v := s.DefaultVersion(); v != nil {
		return v, nil
	}
	return nil, common.ErrNoDefaultVersion
}

func (s *VersionService) preferredVersion(ctx context.Context, userID string) *models.Version {
	id, err := s.repomanager.Users(s.db).GetPreferredVersionID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "preferred version lookup failed", "user_id", userID, "error", err)
		}
		return nil
	}
	if id == 0 {
		return nil
	}
	v, err := s.FindVersionByID(id)
	if err != nil {
		s.logger.Debug(ctx, "preferred version not licensed", "user_id", userID, "version_id", id)
		return nil
	}
	return v
}

// SetPreferredVersion stores code as the user's preference. Only licensed
// codes are accepted.
func (s *VersionService) SetPreferredVersion(ctx context.Context, userID string, code string) (*models.Version, error) {
	if userID == "" {
		return nil, fmt.Errorf("empty user id: %w", common.ErrPrecondition)
	}
	v, err := s.FindVersionByCode(code)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Users(s.db).SetPreferredVersion(ctx, userID, v.ID); err != nil {
		return nil, fmt.Errorf("set preferred version: %w", err)
	}
	return v, nil
}
