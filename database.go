package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-api/config"
	"booking-api/domain"
	"booking-api/repositories"
	"booking-api/services"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Comodidades con las que arranca el catálogo
var defaultCommodities = []string{
	"Wi-Fi",
	"Estacionamiento",
	"Aire acondicionado",
	"Piscina",
	"Cocina",
	"Parrilla",
	"Vestuarios",
	"Iluminación nocturna",
}

// openDatabase conecta con el driver de DB_DRIVER (mysql, postgres o sqlite)
func openDatabase(cfg *config.Config, logger *logrus.Logger) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	logger.WithFields(logrus.Fields{
		"driver": cfg.DBDriver,
		"host":   cfg.DBHost,
		"name":   cfg.DBName,
	}).Info("Connecting to database")

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		// SQLite admite un solo escritor
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	logger.Info("Database connection established")
	return db, nil
}

// migrate crea/actualiza las tablas y carga las comodidades que falten
func migrate(db *gorm.DB, logger *logrus.Logger) error {
	logger.Info("Running migrations")
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := seedCommodities(db); err != nil {
		return err
	}

	logger.Info("Migrations completed")
	return nil
}

func seedCommodities(db *gorm.DB) error {
	rows := make([]domain.Commodity, 0, len(defaultCommodities))
	for _, name := range defaultCommodities {
		rows = append(rows, domain.Commodity{Name: name})
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed commodities: %w", err)
	}
	return nil
}

// seedAdmin crea el admin una sola vez; si ya existe no toca nada
func seedAdmin(ctx context.Context, db *gorm.DB, email, password string, logger *logrus.Logger) error {
	if password == "" {
		return errors.New("admin password is required (ADMIN_PASSWORD or --password)")
	}

	users := services.NewUserService(repositories.NewUserRepository(db), logger)
	admin, created, err := users.EnsureAdmin(ctx, email, password)
	if err != nil {
		return err
	}

	entry := logger.WithFields(logrus.Fields{"user_id": admin.ID, "email": admin.Email})
	if created {
		entry.Info("Admin user created")
	} else {
		entry.Info("Admin user already exists")
	}
	return nil
}
