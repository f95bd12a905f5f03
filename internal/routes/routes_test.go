package routes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	"github.com/BruksfildServices01/equine-practice/internal/config"
	"github.com/BruksfildServices01/equine-practice/internal/events"
	"github.com/BruksfildServices01/equine-practice/internal/locker"
	"github.com/BruksfildServices01/equine-practice/internal/models"
	"github.com/BruksfildServices01/equine-practice/internal/storage"
	"github.com/BruksfildServices01/equine-practice/internal/testutil"
	"github.com/BruksfildServices01/equine-practice/internal/validators"
)

type server struct {
	t       *testing.T
	db      *gorm.DB
	cfg     *config.Config
	engine  *gin.Engine
	fixture testutil.Fixture
	audit   *audit.Dispatcher
}

func newServer(t *testing.T) *server {
	t.Helper()
	return newServerWithStore(t, nil)
}

func newServerWithStore(t *testing.T, store storage.ObjectStore) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validators.RegisterBindings())

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		DevTenantHeaders: true,
		AuthRatePerMin:   1000,
	}
	d := audit.NewDispatcher(audit.New(db), events.Nop{}, zap.NewNop())
	t.Cleanup(d.Close)

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:         db,
		Config:     cfg,
		Log:        zap.NewNop(),
		Locks:      locker.NewLocal(),
		Audit:      d,
		Store:      store,
		EmailCheck: func(string) bool { return true },
	})

	return &server{t: t, db: db, cfg: cfg, engine: r, fixture: testutil.Seed(t, db, "alpha"), audit: d}
}

func (s *server) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) asPractice() map[string]string {
	return map[string]string{
		"X-Practice-ID": strconv.FormatUint(uint64(s.fixture.Practice.ID), 10),
		"X-User-ID":     strconv.FormatUint(uint64(s.fixture.Practitioner.ID), 10),
	}
}

func (s *server) bearer(userID uint, role string) map[string]string {
	s.t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        userID,
		"practiceId": s.fixture.Practice.ID,
		"role":       role,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(s.cfg.JWTSecret))
	require.NoError(s.t, err)
	return map[string]string{"Authorization": "Bearer " + signed}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *server) appointmentBody(startH, endH int) map[string]any {
	return map[string]any{
		"practitionerId": s.fixture.Practitioner.ID,
		"clientId":       s.fixture.Client.ID,
		"horseId":        s.fixture.Horse.ID,
		"serviceId":      s.fixture.Service.ID,
		"start":          testutil.At(startH, 0),
		"end":            testutil.At(endH, 0),
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecuredRoutesRequireScope(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/clients", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body := decode[map[string]string](t, w)
	assert.Equal(t, "missing_authorization_header", body["error_code"])
}

func TestAppointments_CreateThenConflict(t *testing.T) {
	s := newServer(t)
	h := s.asPractice()

	w := s.do(http.MethodPost, "/api/appointments", s.appointmentBody(9, 10), h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[models.Appointment](t, w)
	assert.Equal(t, "scheduled", created.Status)
	assert.True(t, testutil.At(9, 0).Equal(created.StartTime))

	w = s.do(http.MethodPost, "/api/appointments", s.appointmentBody(9, 11), h)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "appointment_conflict", decode[map[string]string](t, w)["error_code"])

	// Touching intervals do not overlap.
	w = s.do(http.MethodPost, "/api/appointments", s.appointmentBody(10, 11), h)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAppointments_InvalidRange(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/appointments", s.appointmentBody(11, 10), s.asPractice())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_time_range", decode[map[string]string](t, w)["error_code"])
}

func TestAppointments_OtherTenantIsNotFound(t *testing.T) {
	s := newServer(t)
	other := testutil.Seed(t, s.db, "beta")

	w := s.do(http.MethodPost, "/api/appointments", s.appointmentBody(9, 10), s.asPractice())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[models.Appointment](t, w)

	w = s.do(http.MethodGet, "/api/appointments/"+strconv.Itoa(int(ap.ID)), nil, map[string]string{
		"X-Practice-ID": strconv.Itoa(int(other.Practice.ID)),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoiceFromAppointmentAndPayment(t *testing.T) {
	s := newServer(t)
	h := s.asPractice()

	w := s.do(http.MethodPost, "/api/appointments", s.appointmentBody(9, 10), h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[models.Appointment](t, w)

	w = s.do(http.MethodPost, "/api/invoices/from-appointment", map[string]any{"appointmentId": ap.ID}, h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decode[models.Invoice](t, w)
	assert.Equal(t, "INV-0001", inv.Number)
	assert.Equal(t, int64(2000), inv.SubtotalCents)
	assert.Equal(t, int64(200), inv.TaxCents)
	assert.Equal(t, int64(2200), inv.TotalCents)

	path := "/api/invoices/" + strconv.Itoa(int(inv.ID))
	w = s.do(http.MethodPost, path+"/payments", map[string]any{"amountCents": 2200, "method": "card"}, h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "paid", decode[models.Invoice](t, w).Status)

	w = s.do(http.MethodDelete, path, nil, h)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, path+"/items", map[string]any{"description": "Extra", "qty": 1, "unitPriceCents": 100}, h)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invoice_void", decode[map[string]string](t, w)["error_code"])
}

func TestReadOnlyRoleCannotWrite(t *testing.T) {
	s := newServer(t)

	viewer := models.User{
		PracticeID:   s.fixture.Practice.ID,
		Name:         "Viewer",
		Email:        "viewer@example.com",
		PasswordHash: "x",
		Role:         models.RoleReadOnly,
	}
	require.NoError(t, s.db.Create(&viewer).Error)
	h := s.bearer(viewer.ID, models.RoleReadOnly)

	w := s.do(http.MethodGet, "/api/clients", nil, h)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/clients", map[string]any{"firstName": "New", "lastName": "Client"}, h)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "read_only", decode[map[string]string](t, w)["error_code"])
}

func TestOwnerOnlyRoutes(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPut, "/api/practice", map[string]any{"name": "Renamed"},
		s.bearer(s.fixture.Practitioner.ID, models.RolePractitioner))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMutationsAreAudited(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/clients", map[string]any{"firstName": "Amy", "lastName": "Stone"}, s.asPractice())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	s.audit.Close()

	var logs []models.AuditLog
	require.NoError(t, s.db.Where("entity_type = ?", "client").Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "create", logs[0].Action)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, s.fixture.Practitioner.ID, *logs[0].UserID)
}

func TestPublicSlots(t *testing.T) {
	s := newServer(t)

	require.NoError(t, s.db.Create(&models.Availability{
		PractitionerID: s.fixture.Practitioner.ID,
		Weekday:        1,
		StartTime:      "09:00",
		EndTime:        "12:00",
	}).Error)

	w := s.do(http.MethodGet, "/api/public/alpha/slots?practitionerId="+
		strconv.Itoa(int(s.fixture.Practitioner.ID))+"&date=2025-03-10&serviceId="+
		strconv.Itoa(int(s.fixture.Service.ID)), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/public/missing/services", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterLoginAndMe(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", map[string]any{
		"practiceName":     "Hoof & Co",
		"practiceSlug":     "Hoof-Co",
		"practiceTimezone": "Australia/Perth",
		"name":             "Sam Owner",
		"email":            "Sam@Hoof.example.com",
		"password":         "correct-horse",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	type authBody struct {
		User     models.User     `json:"user"`
		Practice models.Practice `json:"practice"`
		Token    string          `json:"token"`
	}
	reg := decode[authBody](t, w)
	assert.Equal(t, "hoof-co", reg.Practice.Slug)
	assert.Equal(t, models.RoleOwner, reg.User.Role)
	assert.NotEmpty(t, reg.Token)

	w = s.do(http.MethodPost, "/api/auth/register", map[string]any{
		"practiceName": "Copy",
		"practiceSlug": "hoof-co",
		"name":         "Other",
		"email":        "other@hoof.example.com",
		"password":     "correct-horse",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", map[string]any{
		"email": "sam@hoof.example.com", "password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", map[string]any{
		"email": "sam@hoof.example.com", "password": "correct-horse",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[authBody](t, w)
	assert.Equal(t, reg.Practice.ID, login.Practice.ID)

	w = s.do(http.MethodGet, "/api/me", nil, map[string]string{"Authorization": "Bearer " + login.Token})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
