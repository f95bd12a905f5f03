package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/equine-practice/internal/db"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

// NewDB returns a migrated in-memory sqlite database private to t.
// A single connection keeps the in-memory schema alive and serialises writers.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbpkg.Migrate(db, false))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Fixture is a practice with one practitioner, client, horse and service.
type Fixture struct {
	Practice     models.Practice
	Practitioner models.User
	Client       models.Client
	Horse        models.Horse
	Service      models.Service
}

func Seed(t *testing.T, db *gorm.DB, slug string) Fixture {
	t.Helper()

	f := Fixture{}

	f.Practice = models.Practice{Name: "Practice " + slug, Slug: slug, Timezone: "UTC"}
	require.NoError(t, db.Create(&f.Practice).Error)

	f.Practitioner = models.User{
		PracticeID:   f.Practice.ID,
		Name:         "Dr " + slug,
		Email:        slug + "@example.com",
		PasswordHash: "x",
		Role:         models.RolePractitioner,
	}
	require.NoError(t, db.Create(&f.Practitioner).Error)

	f.Client = models.Client{PracticeID: f.Practice.ID, FirstName: "Ann", LastName: "Rider"}
	require.NoError(t, db.Create(&f.Client).Error)

	f.Horse = models.Horse{ClientID: f.Client.ID, Name: "Comet"}
	require.NoError(t, db.Create(&f.Horse).Error)

	f.Service = models.Service{
		PracticeID:   f.Practice.ID,
		Name:         "Trim",
		DurationMins: 60,
		PriceCents:   2000,
		TaxRate:      0.10,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&f.Service).Error)

	return f
}

// At returns 2025-03-10 (a Monday) at hh:mm UTC.
func At(hh, mm int) time.Time {
	return time.Date(2025, 3, 10, hh, mm, 0, 0, time.UTC)
}
