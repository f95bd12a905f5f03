package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/equine-practice/internal/domain/appointment"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Tenant lookups
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPractice(
	ctx context.Context,
	id uint,
) (*models.Practice, error) {

	var practice models.Practice
	if err := r.db.WithContext(ctx).First(&practice, id).Error; err != nil {
		return nil, err
	}
	return &practice, nil
}

func (r *AppointmentGormRepository) GetPractitioner(
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

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	practiceID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND practice_id = ?", clientID, practiceID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// GetHorse scopes through the owning client, horses carry no practice id.
func (r *AppointmentGormRepository) GetHorse(
	ctx context.Context,
	practiceID uint,
	horseID uint,
) (*models.Horse, error) {

	var horse models.Horse
	if err := r.db.WithContext(ctx).
		Joins("JOIN clients ON clients.id = horses.client_id").
		Where("horses.id = ? AND clients.practice_id = ?", horseID, practiceID).
		First(&horse).Error; err != nil {
		return nil, err
	}
	return &horse, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	practiceID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND practice_id = ?", serviceID, practiceID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// AssertNoTimeConflict must run inside Transaction. On Postgres the matching
// rows are locked until commit; sqlite drops the locking clause.
func (r *AppointmentGormRepository) AssertNoTimeConflict(
	ctx context.Context,
	q domain.ConflictQuery,
) error {

	query := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where(
			"practice_id = ? AND practitioner_id = ? AND start_time < ? AND end_time > ?",
			q.PracticeID,
			q.PractitionerID,
			q.End.UTC(),
			q.Start.UTC(),
		)

	if q.ExcludeID != 0 {
		query = query.Where("id <> ?", q.ExcludeID)
	}
	if q.IgnoreCancelled {
		query = query.Where("status <> ?", string(domain.StatusCancelled))
	}

	var hits []models.Appointment
	if err := query.Limit(1).Find(&hits).Error; err != nil {
		return err
	}

	if len(hits) > 0 {
		return httperr.ErrConflict("appointment_conflict")
	}

	return nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	practiceID uint,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.hydrated(ctx).
		Where("id = ? AND practice_id = ?", id, practiceID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.hydrated(ctx).Where("practice_id = ?", f.PracticeID)

	if f.PractitionerID != 0 {
		q = q.Where("practitioner_id = ?", f.PractitionerID)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("start_time <= ?", f.To.UTC())
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) hydrated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Practitioner").
		Preload("Client").
		Preload("Horse").
		Preload("Service")
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAvailabilityForWeekday(
	ctx context.Context,
	practitionerID uint,
	weekday int,
) ([]models.Availability, error) {

	var rules []models.Availability
	if err := r.db.WithContext(ctx).
		Where("practitioner_id = ? AND weekday = ?", practitionerID, weekday).
		Order("start_time ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AppointmentGormRepository) ListBookedForPeriod(
	ctx context.Context,
	practiceID uint,
	practitionerID uint,
	start time.Time,
	end time.Time,
	ignoreCancelled bool,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"practice_id = ? AND practitioner_id = ? AND start_time < ? AND end_time > ?",
			practiceID, practitionerID, end.UTC(), start.UTC(),
		)

	if ignoreCancelled {
		q = q.Where("status <> ?", string(domain.StatusCancelled))
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

var _ domain.Repository = (*AppointmentGormRepository)(nil)
