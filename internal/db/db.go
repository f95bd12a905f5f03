package db

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/equine-practice/internal/config"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBUrl)
	default:
		dialector = postgres.Open(cfg.DBUrl)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    cfg.DBDriver == "postgres",
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := Migrate(db, cfg.IgnoreCancelledConflicts); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.String("driver", cfg.DBDriver))
	return db, nil
}

func Migrate(db *gorm.DB, ignoreCancelled bool) error {
	if err := db.AutoMigrate(
		&models.Practice{},
		&models.User{},
		&models.Client{},
		&models.Horse{},
		&models.Service{},
		&models.Availability{},
		&models.Appointment{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Payment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := installOverlapConstraint(db, ignoreCancelled); err != nil {
			return fmt.Errorf("overlap constraint: %w", err)
		}
	}

	return nil
}

const overlapConstraint = "appointments_no_overlap"

// installOverlapConstraint makes Postgres itself refuse two overlapping
// bookings for one practitioner. Ranges are half-open, like the app check.
// A constraint left by the other SCHEDULING_IGNORE_CANCELLED setting is
// replaced.
func installOverlapConstraint(db *gorm.DB, ignoreCancelled bool) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	var defs []string
	if err := db.Raw(
		`SELECT pg_get_constraintdef(oid) FROM pg_constraint WHERE conname = ?`,
		overlapConstraint,
	).Scan(&defs).Error; err != nil {
		return err
	}

	existing := ""
	if len(defs) > 0 {
		existing = defs[0]
	}
	if !overlapConstraintStale(existing, ignoreCancelled) {
		return nil
	}

	where := ""
	if ignoreCancelled {
		where = `WHERE (status <> 'cancelled')`
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`ALTER TABLE appointments DROP CONSTRAINT IF EXISTS ` + overlapConstraint).Error; err != nil {
			return err
		}
		return tx.Exec(fmt.Sprintf(`
			ALTER TABLE appointments
			ADD CONSTRAINT %s
			EXCLUDE USING gist (
				practice_id WITH =,
				practitioner_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			) %s
		`, overlapConstraint, where)).Error
	})
}

// overlapConstraintStale reports whether def, as printed by
// pg_get_constraintdef, is missing or filters cancelled rows differently
// from what ignoreCancelled asks for.
func overlapConstraintStale(def string, ignoreCancelled bool) bool {
	if def == "" {
		return true
	}
	filtersCancelled := strings.Contains(strings.ToUpper(def), " WHERE ")
	return filtersCancelled != ignoreCancelled
}
