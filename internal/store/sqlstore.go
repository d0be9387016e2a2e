package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

// recordRow is the persisted shape of a weather.Record.
// Seq breaks timestamp ties in insertion order. CityFold is City lowercased
// with Unicode rules; SQLite's LOWER only folds ASCII.
type recordRow struct {
	Seq         uint      `gorm:"primaryKey;autoIncrement"`
	ID          string    `gorm:"column:record_id;size:36;uniqueIndex;not null"`
	City        string    `gorm:"size:255;not null"`
	CityFold    string    `gorm:"column:city_fold;size:255;index"`
	Temperature int       `gorm:"not null"`
	Condition   string    `gorm:"column:condition_label;size:64;not null"`
	RecordedAt  time.Time `gorm:"index;not null"`
}

func (recordRow) TableName() string { return "weather_records" }

func (r recordRow) toRecord() weather.Record {
	return weather.Record{
		ID:          r.ID,
		City:        r.City,
		Temperature: r.Temperature,
		Condition:   r.Condition,
		Timestamp:   r.RecordedAt.UTC(),
	}
}

// SQLStore is a gorm-backed record store for SQLite or MySQL.
type SQLStore struct {
	db    *gorm.DB
	clock *clock
}

// OpenSQL connects to the database and migrates the schema.
// For sqlite, dsn is a file path; for mysql it is a go-sql-driver DSN.
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = "weather.db"
		}
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create db path: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	case DriverMySQL:
		if dsn == "" {
			return nil, errors.New("mysql store requires a DSN")
		}
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(&recordRow{}); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	if err := backfillCityFold(db); err != nil {
		closeDB(db)
		return nil, err
	}

	s := &SQLStore{db: db, clock: newClock(time.Now)}

	// Resume the clock after the newest stored record.
	var latest []recordRow
	if err := db.Order("recorded_at DESC, seq DESC").Limit(1).Find(&latest).Error; err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to read latest record: %w", err)
	}
	if len(latest) > 0 {
		s.clock.seed(latest[0].RecordedAt)
	}

	return s, nil
}

// Insert assigns an id and timestamp and writes the record.
func (s *SQLStore) Insert(ctx context.Context, rec weather.Record) (weather.Record, error) {
	if s == nil || s.db == nil {
		return weather.Record{}, ErrNotInitialized
	}

	row := recordRow{
		ID:          uuid.NewString(),
		City:        rec.City,
		CityFold:    foldCity(rec.City),
		Temperature: rec.Temperature,
		Condition:   rec.Condition,
		RecordedAt:  s.clock.next(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return weather.Record{}, fmt.Errorf("insert record: %w", err)
	}
	return row.toRecord(), nil
}

// FindByCity returns records whose city contains query, ignoring case, newest first.
// LIKE wildcards in query are matched literally.
func (s *SQLStore) FindByCity(ctx context.Context, query string) ([]weather.Record, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotInitialized
	}

	pattern := "%" + escapeLike(foldCity(query)) + "%"

	var rows []recordRow
	err := s.db.WithContext(ctx).
		Where("city_fold LIKE ? ESCAPE '!'", pattern).
		Order("recorded_at DESC, seq DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	out := make([]weather.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toRecord())
	}
	return out, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrNotInitialized
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve generic DB object: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return ErrNotInitialized
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve generic DB object: %w", err)
	}
	return sqlDB.Close()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// backfillCityFold fills city_fold on rows written before the column existed.
func backfillCityFold(db *gorm.DB) error {
	var rows []recordRow
	if err := db.Where("city_fold IS NULL OR city_fold = ''").Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to read rows to fold: %w", err)
	}
	for _, r := range rows {
		err := db.Model(&recordRow{}).
			Where("seq = ?", r.Seq).
			Update("city_fold", foldCity(r.City)).Error
		if err != nil {
			return fmt.Errorf("failed to fold city of row %d: %w", r.Seq, err)
		}
	}
	return nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
