package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/logging"
	"github.com/dmitrijs2005/dailyword/internal/server/models"
	"github.com/dmitrijs2005/dailyword/internal/server/notify"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/versions"
)

// Reconciliation is the outcome of matching the provider catalog against
// local Version rows.
type Reconciliation struct {
	// Versions are in catalog order.
	Versions []*models.Version
	Default  *models.Version

	// Fallback is set when the configured default was not licensed and
	// Default was chosen by recency instead.
	Fallback bool
}

type Reconciler struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	service     string
	notifier    notify.Notifier
	logger      logging.Logger
}

// NewReconciler returns a Reconciler that tags every Version with service.
func NewReconciler(db *sql.DB, m repomanager.RepositoryManager, service string, notifier notify.Notifier, logger logging.Logger) *Reconciler {
	return &Reconciler{
		db:          db,
		repomanager: m,
		service:     service,
		notifier:    notifier,
		logger:      logger.With("module", "reconciler"),
	}
}

// Reconcile ensures a local Version exists for every translation and picks
// the default. The persisted default setting is read but never changed.
func (r *Reconciler) Reconcile(ctx context.Context, translations []models.Translation) (*Reconciliation, error) {
	if len(translations) == 0 {
		return nil, common.ErrNoAuthorizedVersions
	}

	repo := r.repomanager.Versions(r.db)

	seen := make(map[string]struct{}, len(translations))
	result := make([]*models.Version, 0, len(translations))

	for _, t := range translations {
		if _, ok := seen[t.Code]; ok {
			continue
		}
		seen[t.Code] = struct{}{}

		v, err := r.ensureVersion(ctx, repo, t)
		if err != nil {
			return nil, fmt.Errorf("reconcile %s: %w", t.Code, err)
		}
		v.Service = r.service
		v.LastModified = t.LastModified
		result = append(result, v)
	}

	requested, err := r.configuredDefault(ctx)
	if err != nil {
		return nil, err
	}

	for _, v := range result {
		if v.Code == requested {
			r.logger.Info(ctx, "versions reconciled", "versions", len(result), "default", v.Code)
			return &Reconciliation{Versions: result, Default: v}, nil
		}
	}

	fallback := result[0]
	for _, v := range result[1:] {
		if v.LastModified.After(fallback.LastModified) {
			fallback = v
		}
	}

	r.warn(ctx, requested, result, fallback)

	return &Reconciliation{Versions: result, Default: fallback, Fallback: true}, nil
}

func (r *Reconciler) ensureVersion(ctx context.Context, repo versions.Repository, t models.Translation) (*models.Version, error) {
	v, err := repo.FindByCode(ctx, t.Code)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	v, err = repo.Create(ctx, &models.Version{Code: t.Code, Title: t.Title})
	if errors.Is(err, common.ErrAlreadyExists) {
		r.logger.Debug(ctx, "version created concurrently", "code", t.Code)
		return repo.FindByCode(ctx, t.Code)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info(ctx, "version created", "code", v.Code, "id", v.ID)
	return v, nil
}

func (r *Reconciler) configuredDefault(ctx context.Context) (string, error) {
	code, err := r.repomanager.Settings(r.db).Get(ctx, common.DefaultVersionSettingKey)
	if errors.Is(err, common.ErrorNotFound) {
		r.logger.Warn(ctx, "default version setting is missing", "key", common.DefaultVersionSettingKey)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read default version setting: %w", err)
	}
	return code, nil
}

func (r *Reconciler) warn(ctx context.Context, requested string, licensed []*models.Version, fallback *models.Version) {
	codes := make([]string, len(licensed))
	for i, v := range licensed {
		codes[i] = v.Code
	}

	msg := fmt.Sprintf("Default version %s is not licensed. Licensed versions: %s. Using %s until the %s setting is fixed.",
		requested, strings.Join(codes, ", "), fallback.Code, common.DefaultVersionSettingKey)

	r.logger.Warn(ctx, common.ErrMisconfiguredDefault.Error(),
		"requested", requested, "licensed", codes, "fallback", fallback.Code)

	if err := r.notifier.Warn(ctx, msg); err != nil {
		r.logger.Error(ctx, "operator warning not delivered", "error", err)
	}
}
