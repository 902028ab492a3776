package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Connect opens a PostgreSQL connection pool, verifies connectivity with a
// ping, and returns the gorm handle. Driver errors are translated so unique
// violations surface as gorm.ErrDuplicatedKey.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Beneficiary{},
		&domain.FollowUpVisit{},
		&domain.Category{},
		&domain.Member{},
		&domain.LedgerEntry{},
		&domain.Workshop{},
		&domain.Enrollment{},
		&domain.Attendance{},
		&domain.Certificate{},
	); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// EnsureDuesCategory guarantees the reserved member-dues income category
// exists so dues payments always have a category to land in.
func EnsureDuesCategory(ctx context.Context, db *gorm.DB) error {
	category := domain.Category{
		Name:   domain.DuesCategoryName,
		Kind:   domain.KindIncome,
		Active: true,
	}
	err := db.WithContext(ctx).
		Where(domain.Category{Name: domain.DuesCategoryName}).
		FirstOrCreate(&category).Error
	if err != nil {
		return fmt.Errorf("ensure dues category: %w", err)
	}
	return nil
}
