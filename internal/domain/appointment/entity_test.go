package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

func TestApplyStatus_StampsTimestamps(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusScheduled)}

	require.NoError(t, ApplyStatus(ap, StatusCancelled, now))
	assert.Equal(t, "cancelled", ap.Status)
	require.NotNil(t, ap.CancelledAt)
	assert.Equal(t, now, *ap.CancelledAt)

	require.NoError(t, ApplyStatus(ap, StatusScheduled, now))
	assert.Nil(t, ap.CancelledAt)

	require.NoError(t, ApplyStatus(ap, StatusCompleted, now))
	require.NotNil(t, ap.CompletedAt)
	assert.Nil(t, ap.CancelledAt)
}

func TestApplyStatus_RejectsUnknown(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusScheduled)}

	err := ApplyStatus(ap, Status("no_show"), time.Now())
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
	assert.Equal(t, "scheduled", ap.Status)
}
