package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/equine-practice/internal/domain/availability"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

func (r *AvailabilityGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AvailabilityGormRepository{db: tx})
	})
}

func (r *AvailabilityGormRepository) GetPractitioner(
	ctx context.Context,
	practiceID uint,
	userID uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND practice_id = ?", userID, practiceID).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// scoped joins users so a rule is only visible inside its practitioner's practice.
func (r *AvailabilityGormRepository) scoped(ctx context.Context, practiceID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Availability{}).
		Joins("JOIN users ON users.id = availabilities.practitioner_id").
		Where("users.practice_id = ?", practiceID)
}

func (r *AvailabilityGormRepository) Get(
	ctx context.Context,
	practiceID uint,
	id uint,
) (*models.Availability, error) {

	var a models.Availability
	if err := r.scoped(ctx, practiceID).
		Where("availabilities.id = ?", id).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AvailabilityGormRepository) List(
	ctx context.Context,
	practiceID uint,
	practitionerID uint,
) ([]models.Availability, error) {

	q := r.scoped(ctx, practiceID)
	if practitionerID != 0 {
		q = q.Where("availabilities.practitioner_id = ?", practitionerID)
	}

	var rules []models.Availability
	if err := q.
		Order("availabilities.weekday ASC").
		Order("availabilities.start_time ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// AssertNoOverlap relies on "HH:MM" strings ordering like the clocks they name.
func (r *AvailabilityGormRepository) AssertNoOverlap(
	ctx context.Context,
	q domain.ConflictQuery,
) error {

	query := r.db.WithContext(ctx).
		Model(&models.Availability{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where(
			"practitioner_id = ? AND weekday = ? AND start_time < ? AND end_time > ?",
			q.PractitionerID,
			q.Weekday,
			q.EndTime,
			q.StartTime,
		)

	if q.ExcludeID != 0 {
		query = query.Where("id <> ?", q.ExcludeID)
	}

	var hits []models.Availability
	if err := query.Limit(1).Find(&hits).Error; err != nil {
		return err
	}

	if len(hits) > 0 {
		return httperr.ErrConflict("availability_conflict")
	}
	return nil
}

func (r *AvailabilityGormRepository) Create(ctx context.Context, a *models.Availability) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *AvailabilityGormRepository) Update(ctx context.Context, a *models.Availability) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *AvailabilityGormRepository) Delete(ctx context.Context, a *models.Availability) error {
	return r.db.WithContext(ctx).Delete(a).Error
}

var _ domain.Repository = (*AvailabilityGormRepository)(nil)
