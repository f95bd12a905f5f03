package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/domain/appointment"
	"github.com/BruksfildServices01/equine-practice/internal/models"
	"github.com/BruksfildServices01/equine-practice/internal/timezone"
)

const DemoSlug = "demo-equine"

var ErrAlreadySeeded = errors.New("seed: demo practice already exists")

type Result struct {
	Practice     models.Practice
	Owner        models.User
	Practitioner models.User
	Receptionist models.User
	Appointment  models.Appointment
}

// Demo inserts a demo practice in Australia/Sydney with staff, services,
// one client and horse, weekday availability and a booked appointment.
func Demo(ctx context.Context, db *gorm.DB, password string, now time.Time) (*Result, error) {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.Practice{}).
		Where("slug = ?", DemoSlug).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadySeeded
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res.Practice = models.Practice{
			Name:     "Demo Equine Practice",
			Slug:     DemoSlug,
			Phone:    "+61 2 5550 1000",
			Address:  "12 Paddock Lane, Windsor NSW",
			Timezone: "Australia/Sydney",
		}
		if err := tx.Create(&res.Practice).Error; err != nil {
			return err
		}

		staff := []*models.User{&res.Owner, &res.Practitioner, &res.Receptionist}
		for i, role := range []string{models.RoleOwner, models.RolePractitioner, models.RoleReceptionist} {
			*staff[i] = models.User{
				PracticeID:   res.Practice.ID,
				Name:         "Demo " + role,
				Email:        fmt.Sprintf("%s@%s.example.com", role, DemoSlug),
				PasswordHash: string(hash),
				Role:         role,
			}
			if err := tx.Create(staff[i]).Error; err != nil {
				return err
			}
		}

		services := []models.Service{
			{Name: "Routine dental", DurationMins: 60, PriceCents: 18000, TaxRate: 0.10},
			{Name: "Vaccination", DurationMins: 30, PriceCents: 9500, TaxRate: 0.10},
			{Name: "Lameness exam", DurationMins: 90, PriceCents: 26000, TaxRate: 0.10},
		}
		for i := range services {
			services[i].PracticeID = res.Practice.ID
			services[i].IsActive = true
		}
		if err := tx.Create(&services).Error; err != nil {
			return err
		}

		client := models.Client{
			PracticeID: res.Practice.ID,
			FirstName:  "Jo",
			LastName:   "Hayes",
			Email:      "jo.hayes@example.com",
			Phone:      "0400 000 111",
		}
		if err := tx.Create(&client).Error; err != nil {
			return err
		}
		horse := models.Horse{ClientID: client.ID, Name: "Biscuit", Breed: "Australian Stock Horse"}
		if err := tx.Create(&horse).Error; err != nil {
			return err
		}

		var windows []models.Availability
		for wd := 1; wd <= 5; wd++ {
			windows = append(windows, models.Availability{
				PractitionerID: res.Practitioner.ID,
				Weekday:        wd,
				StartTime:      "08:00",
				EndTime:        "17:00",
			})
		}
		if err := tx.Create(&windows).Error; err != nil {
			return err
		}

		start := nextWeekdayMorning(now, res.Practice.Timezone)
		horseID := horse.ID
		res.Appointment = models.Appointment{
			PracticeID:     res.Practice.ID,
			PractitionerID: res.Practitioner.ID,
			ClientID:       client.ID,
			HorseID:        &horseID,
			ServiceID:      services[0].ID,
			StartTime:      start,
			EndTime:        start.Add(time.Duration(services[0].DurationMins) * time.Minute),
			Status:         string(appointment.StatusScheduled),
			LocationText:   "Client property",
		}
		return tx.Create(&res.Appointment).Error
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// nextWeekdayMorning is 09:00 local on the next Monday to Friday after now, in UTC.
func nextWeekdayMorning(now time.Time, tz string) time.Time {
	loc := timezone.Location(tz)
	d := now.In(loc).AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, loc).UTC()
}
