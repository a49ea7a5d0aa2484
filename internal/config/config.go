package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Clippings
		Org
		Library
		Calibre
		Database
		Watch
	}

	Clippings struct {
		Path       string
		BackupPath string // Copy of the last clippings file read; "" disables backups
	}
	Org struct {
		File    string
		TextDir string // Text renditions of the books, targets of the links
	}
	Library struct {
		MasterDir string
		SourceDir string
		BibFile   string
	}
	Calibre struct {
		EbookMetaBin    string
		EbookConvertBin string
		Timeout         time.Duration
	}
	Database struct {
		Path string
	}
	Watch struct {
		Enabled      bool
		Schedule     string // Cron format: "*/15 * * * *" = every 15 minutes
		AlsoRepeated bool
	}
)

// NewConfig reads the configuration from the environment, after loading a
// .env file from the working directory when there is one.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("clippings_path", DefaultClippingsPath)
	v.SetDefault("clippings_backup_path", DefaultBackupPath)
	v.SetDefault("org_file", "ref.org")
	v.SetDefault("text_dir", "text")
	v.SetDefault("master_dir", "")
	v.SetDefault("source_dir", ".")
	v.SetDefault("bib_file", "ref.bib")
	v.SetDefault("ebook_meta_bin", "ebook-meta")
	v.SetDefault("ebook_convert_bin", "ebook-convert")
	v.SetDefault("calibre_timeout", "2m")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("watch_enabled", false)
	v.SetDefault("watch_schedule", DefaultWatchSchedule)
	v.SetDefault("watch_also_repeated", false)

	return &Config{
		Clippings: Clippings{
			Path:       v.GetString("CLIPPINGS_PATH"),
			BackupPath: v.GetString("CLIPPINGS_BACKUP_PATH"),
		},
		Org: Org{
			File:    v.GetString("ORG_FILE"),
			TextDir: v.GetString("TEXT_DIR"),
		},
		Library: Library{
			MasterDir: v.GetString("MASTER_DIR"),
			SourceDir: v.GetString("SOURCE_DIR"),
			BibFile:   v.GetString("BIB_FILE"),
		},
		Calibre: Calibre{
			EbookMetaBin:    v.GetString("EBOOK_META_BIN"),
			EbookConvertBin: v.GetString("EBOOK_CONVERT_BIN"),
			Timeout:         v.GetDuration("CALIBRE_TIMEOUT"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Watch: Watch{
			Enabled:      v.GetBool("WATCH_ENABLED"),
			Schedule:     v.GetString("WATCH_SCHEDULE"),
			AlsoRepeated: v.GetBool("WATCH_ALSO_REPEATED"),
		},
	}
}

// ValidateWatch checks what the watch command needs before it starts.
func (c *Config) ValidateWatch() error {
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := c.Library.Validate(); err != nil {
		return fmt.Errorf("library: %w", err)
	}
	return validation.ValidateStruct(&c.Org,
		validation.Field(&c.Org.File, validation.Required),
	)
}

func (w *Watch) Validate() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.Schedule, validation.Required, validation.By(func(value interface{}) error {
			return ValidateCronSchedule(value.(string))
		})),
	)
}

func (l *Library) Validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.MasterDir, validation.Required),
		validation.Field(&l.SourceDir, validation.Required),
		validation.Field(&l.BibFile, validation.Required),
	)
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule validates a five-field cron schedule string
func ValidateCronSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule
func GetCronDescription(schedule string) string {
	switch schedule {
	case "*/5 * * * *":
		return "Every 5 minutes"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "*/30 * * * *":
		return "Every 30 minutes"
	case "0 * * * *":
		return "Every hour at :00"
	case "0 0 * * *":
		return "Daily at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// GetNextRunTime calculates when the schedule fires next after from
func GetNextRunTime(schedule string, from time.Time) (time.Time, error) {
	sched, err := scheduleParser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}
