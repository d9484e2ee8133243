package cmd

import (
	"database/sql"
	"foodinspect/internal/archive"
	"foodinspect/internal/components/chrono"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/db"
	"foodinspect/pkg/migrations"
)

type ArchiveConfig struct {
	// Database is a sqlite file path or a libsql:// url.
	Database string `json:"database"`
	Disabled bool   `json:"disabled"`
}

func DefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{Database: "foodinspect.db"}
}

type Archive struct {
	DB      *sql.DB
	MakeTx  db.MakeTx
	Archive archive.Archive
}

func InitArchive(cfg ArchiveConfig, time chrono.API, tel telemetry.API) (Archive, error) {
	database, err := migrations.OpenAndMigrateDB(db.Schema, cfg.Database)
	if err != nil {
		return Archive{}, err
	}
	makeTx := db.NewMakeTx(database)
	return Archive{
		DB:      database,
		MakeTx:  makeTx,
		Archive: archive.NewArchive(db.New(database), makeTx, time, tel),
	}, nil
}
