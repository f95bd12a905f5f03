package routes

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/equine-practice/internal/models"
	"github.com/BruksfildServices01/equine-practice/internal/storage"
	"github.com/BruksfildServices01/equine-practice/internal/testutil"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Put(_ context.Context, key, contentType string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	m.types[key] = contentType
	return nil
}

func (m *memStore) URL(key string) string { return "https://cdn.test/" + key }

type listBody[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func id(v uint) string { return strconv.FormatUint(uint64(v), 10) }

func (s *server) upload(path string, field string, data []byte) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "photo.png")
	require.NoError(s.t, err)
	_, err = fw.Write(data)
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range s.asPractice() {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAvailabilityRoutes(t *testing.T) {
	s := newServer(t)
	h := s.asPractice()
	pid := s.fixture.Practitioner.ID

	window := map[string]any{"practitionerId": pid, "weekday": 1, "startTime": "09:00", "endTime": "12:00"}
	w := s.do(http.MethodPost, "/api/availability", window, h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Availability](t, w)

	w = s.do(http.MethodPost, "/api/availability",
		map[string]any{"practitionerId": pid, "weekday": 1, "startTime": "11:00", "endTime": "13:00"}, h)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "availability_conflict", decode[map[string]string](t, w)["error_code"])

	w = s.do(http.MethodPost, "/api/availability",
		map[string]any{"practitionerId": pid, "weekday": 1, "startTime": "9:00", "endTime": "10:00"}, h)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/availability?practitionerId="+id(pid), nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[listBody[models.Availability]](t, w).Items, 1)

	path := "/api/availability/" + id(created.ID)
	w = s.do(http.MethodPut, path, map[string]any{"endTime": "11:00"}, h)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "11:00", decode[models.Availability](t, w).EndTime)

	w = s.do(http.MethodGet, "/api/availability/slots?practitionerId="+id(pid)+
		"&serviceId="+id(s.fixture.Service.ID)+"&date=2025-03-10", nil, h)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	slots := decode[struct {
		Slots []map[string]string `json:"slots"`
	}](t, w).Slots
	assert.Equal(t, []map[string]string{
		{"start": "09:00", "end": "10:00"},
		{"start": "10:00", "end": "11:00"},
	}, slots)

	w = s.do(http.MethodDelete, path, nil, h)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, path, nil, h)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "availability_not_found", decode[map[string]string](t, w)["error_code"])
}

func TestHorseRoutes(t *testing.T) {
	s := newServer(t)
	h := s.asPractice()
	other := testutil.Seed(t, s.db, "beta")

	w := s.do(http.MethodPost, "/api/horses",
		map[string]any{"clientId": s.fixture.Client.ID, "name": "Pepper", "breed": "Welsh Cob"}, h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	horse := decode[models.Horse](t, w)

	w = s.do(http.MethodPost, "/api/horses",
		map[string]any{"clientId": other.Client.ID, "name": "Stray"}, h)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/horses?query=cob", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[listBody[models.Horse]](t, w).Items
	require.Len(t, found, 1)
	assert.Equal(t, horse.ID, found[0].ID)

	path := "/api/horses/" + id(horse.ID)
	w = s.do(http.MethodPut, path,
		map[string]any{"clientId": s.fixture.Client.ID, "name": "Pepper II", "age": 7}, h)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Pepper II", decode[models.Horse](t, w).Name)

	w = s.do(http.MethodGet, "/api/horses/"+id(other.Horse.ID), nil, h)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.upload(path+"/photo", "photo", pngBytes(t))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "storage_not_configured", decode[map[string]string](t, w)["error_code"])

	w = s.do(http.MethodDelete, path, nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, path, nil, h)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHorsePhotoUpload(t *testing.T) {
	store := newMemStore()
	s := newServerWithStore(t, store)
	path := "/api/horses/" + id(s.fixture.Horse.ID) + "/photo"

	w := s.upload(path, "photo", []byte("definitely not an image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_image", decode[map[string]string](t, w)["error_code"])

	w = s.upload(path, "file", pngBytes(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "photo_required", decode[map[string]string](t, w)["error_code"])

	w = s.upload(path, "photo", pngBytes(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	key := storage.HorsePhotoKey(s.fixture.Practice.ID, s.fixture.Horse.ID)
	body := decode[map[string]any](t, w)
	assert.Equal(t, key, body["photoKey"])
	assert.Equal(t, store.URL(key), body["photoUrl"])
	assert.NotEmpty(t, store.objects[key])
	assert.Equal(t, "image/webp", store.types[key])

	var stored models.Horse
	require.NoError(t, s.db.First(&stored, s.fixture.Horse.ID).Error)
	assert.Equal(t, key, stored.PhotoKey)
}

func TestServiceRoutes(t *testing.T) {
	s := newServer(t)
	h := s.asPractice()

	w := s.do(http.MethodPost, "/api/services",
		map[string]any{"name": "Float teeth", "durationMins": 45, "priceCents": 15000}, h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc := decode[models.Service](t, w)
	assert.InDelta(t, 0.10, svc.TaxRate, 1e-9)
	assert.True(t, svc.IsActive)

	w = s.do(http.MethodPost, "/api/services",
		map[string]any{"name": "Too short", "durationMins": 2}, h)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/services", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[listBody[models.Service]](t, w).Items, 2)

	path := "/api/services/" + id(svc.ID)
	w = s.do(http.MethodPut, path,
		map[string]any{"name": "Float teeth", "durationMins": 60, "priceCents": 16000, "taxRate": 0, "isActive": false}, h)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Service](t, w)
	assert.Equal(t, 60, updated.DurationMins)
	assert.False(t, updated.IsActive)

	w = s.do(http.MethodDelete, path, nil, h)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodGet, path, nil, h)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A booked service cannot be deleted.
	w = s.do(http.MethodPost, "/api/appointments", s.appointmentBody(9, 10), h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodDelete, "/api/services/"+id(s.fixture.Service.ID), nil, h)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "in_use", decode[map[string]string](t, w)["error_code"])
}

func TestUserRoutes(t *testing.T) {
	s := newServer(t)
	h := s.asPractice()
	other := testutil.Seed(t, s.db, "beta")

	w := s.do(http.MethodPost, "/api/users", map[string]any{
		"name": "Rae Front", "email": "Rae@Alpha.example.com", "password": "long-enough", "role": "receptionist",
	}, h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rae := decode[models.User](t, w)
	assert.Equal(t, "rae@alpha.example.com", rae.Email)
	assert.NotContains(t, w.Body.String(), "passwordHash")

	w = s.do(http.MethodPost, "/api/users", map[string]any{
		"name": "Dup", "email": "rae@alpha.example.com", "password": "long-enough", "role": "read_only",
	}, h)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_taken", decode[map[string]string](t, w)["error_code"])

	w = s.do(http.MethodPost, "/api/users", map[string]any{
		"name": "Bad", "email": "bad@alpha.example.com", "password": "long-enough", "role": "admin",
	}, h)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/users?role=receptionist", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[listBody[models.User]](t, w).Items
	require.Len(t, users, 1)
	assert.Equal(t, rae.ID, users[0].ID)

	w = s.do(http.MethodGet, "/api/users", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[listBody[models.User]](t, w).Items, 2)

	w = s.do(http.MethodGet, "/api/users/"+id(rae.ID), nil, h)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/users/"+id(other.Practitioner.ID), nil, h)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/users", map[string]any{
		"name": "Nope", "email": "nope@alpha.example.com", "password": "long-enough", "role": "owner",
	}, s.bearer(s.fixture.Practitioner.ID, models.RolePractitioner))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
