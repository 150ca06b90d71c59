// Package dsn builds data source names and gorm dialectors from the configuration.
package dsn

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/RecipeSync/RecipeSync/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(dbCfg *config.DB) string {
	switch dbCfg.GormEngine {
	case config.EngineMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.User,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.Name,
			dbCfg.Extras,
		)
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.User,
			dbCfg.Password,
			dbCfg.Name,
		)
		if dbCfg.Extras != "" {
			out += " " + strings.TrimSpace(dbCfg.Extras)
		}

		return out
	default:
		if dbCfg.Extras == "" {
			return dbCfg.Path
		}

		return dbCfg.Path + "?" + dbCfg.Extras
	}
}

// Dialector returns the gorm dialector for the configured engine.
func Dialector(dbCfg *config.DB) (gorm.Dialector, error) {
	switch dbCfg.GormEngine {
	case config.EngineSQLite, "":
		return sqlite.Open(Create(dbCfg)), nil
	case config.EngineMySQL:
		return mysql.Open(Create(dbCfg)), nil
	case config.EnginePostgres:
		return postgres.Open(Create(dbCfg)), nil
	default:
		return nil, errors.Wrapf(config.ErrUnknownGormEngine, "%q", dbCfg.GormEngine)
	}
}
