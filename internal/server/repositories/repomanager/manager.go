package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/dailyword/internal/dbx"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/passages"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/readings"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/settings"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/users"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/versions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Versions(db dbx.DBTX) versions.Repository
	Settings(db dbx.DBTX) settings.Repository
	Readings(db dbx.DBTX) readings.Repository
	Passages(db dbx.DBTX) passages.Repository
	Users(db dbx.DBTX) users.Repository
}
