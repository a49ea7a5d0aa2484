package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/orgclips/internal/database/imports"
	"github.com/mrlokans/orgclips/internal/database/settings"
	"github.com/mrlokans/orgclips/internal/entities"
)

type Database struct {
	DB *gorm.DB

	imports  *imports.Repository
	settings *settings.Repository
}

func NewDatabase(dbPath string) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.ImportRecord{},
		&entities.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized at %s", dbPath)

	return &Database{
		DB:       db,
		imports:  imports.NewRepository(db),
		settings: settings.NewRepository(db),
	}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) RecordImport(record *entities.ImportRecord) error {
	return d.imports.Record(record)
}

func (d *Database) GetImportByBibid(bibid string) (*entities.ImportRecord, error) {
	return d.imports.GetByBibid(bibid)
}

func (d *Database) ListImports(limit int) ([]entities.ImportRecord, error) {
	return d.imports.List(limit)
}

func (d *Database) GetSetting(key string) (*entities.Setting, error) {
	return d.settings.GetSetting(key)
}

func (d *Database) GetSettingValue(key string) string {
	return d.settings.GetValue(key)
}

func (d *Database) SetSetting(key, value string) error {
	return d.settings.SetSetting(key, value)
}

func (d *Database) DeleteSetting(key string) error {
	return d.settings.DeleteSetting(key)
}
