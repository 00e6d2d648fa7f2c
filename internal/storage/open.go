// Package storage selects the storage engine named by the configuration.
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hbnb_api/internal/domain"
	"hbnb_api/internal/shared"
	"hbnb_api/internal/storage/memory"
	mysqlrepo "hbnb_api/internal/storage/mysql"
)

// Open returns the configured engine and a close func that flushes (file)
// or disconnects (db).
func Open(cfg shared.Config) (domain.Storage, func() error, error) {
	if cfg.StorageType == "file" {
		st, err := memory.Open(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", cfg.FilePath, err)
		}
		log.Info().Str("path", cfg.FilePath).Msg("file storage loaded")
		return st, st.Save, nil
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db.Ping: %w", err)
	}
	log.Info().Msg("database connection ok")
	return mysqlrepo.New(db), db.Close, nil
}
