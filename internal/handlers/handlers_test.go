package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/audit"
	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/metrics"
	"github.com/BruksfildServices01/care-marketplace/internal/middleware"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/testutil"
)

// asUser simula o AuthMiddleware.
func asUser(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func request(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newAudit(t *testing.T, db *gorm.DB) *audit.Dispatcher {
	t.Helper()
	d := audit.NewDispatcher(audit.New(db, logger.Discard()), logger.Discard())
	t.Cleanup(d.Close)
	return d
}

func TestAdminCatalog_PlanDurationValidated(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewAdminCatalogHandler(db, newAudit(t, db), logger.Discard())

	r := newEngine(asUser(1, models.RoleAdmin))
	r.POST("/plans", h.CreatePlan)
	r.PATCH("/plans/:id", h.UpdatePlan)
	r.DELETE("/plans/:id", h.DeletePlan)

	w := request(r, http.MethodPost, "/plans", gin.H{"name": "Anual", "price": 10, "duration_type": "yearly"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_duration_type")

	w = request(r, http.MethodPost, "/plans", gin.H{"name": "Sessão", "price": 80, "duration_type": "session"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var plan models.Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))

	w = request(r, http.MethodPatch, fmt.Sprintf("/plans/%d", plan.ID), gin.H{"name": "Sessão", "price": 90, "duration_type": "hour"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"duration_type":"hour"`)

	assert.Equal(t, http.StatusNoContent, request(r, http.MethodDelete, fmt.Sprintf("/plans/%d", plan.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, request(r, http.MethodDelete, fmt.Sprintf("/plans/%d", plan.ID), nil).Code)
}

func TestAdminCatalog_UpdateMissingCategory(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewAdminCatalogHandler(db, newAudit(t, db), logger.Discard())

	r := newEngine(asUser(1, models.RoleAdmin))
	r.PATCH("/categories/:id", h.UpdateCategory)

	w := request(r, http.MethodPatch, "/categories/99", gin.H{"name": "Fisioterapia"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "category_not_found")

	w = request(r, http.MethodPatch, "/categories/abc", gin.H{"name": "Fisioterapia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_id")
}

func TestAdmin_ProfessionalStatusAndSearch(t *testing.T) {
	db := testutil.NewDB(t)
	_, prof := testutil.CreateProfessional(t, db, "paula@cuidar.app", "Paula Souza", "Enfermagem")
	testutil.CreateProfessional(t, db, "rui@cuidar.app", "Rui Alves", "Enfermagem")

	h := NewAdminHandler(db, nil, newAudit(t, db), logger.Discard())
	r := newEngine(asUser(1, models.RoleAdmin))
	r.GET("/professionals", h.ListProfessionals)
	r.PATCH("/professionals/:id/status", h.UpdateProfessionalStatus)

	w := request(r, http.MethodGet, "/professionals?query=paula", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Data  []AdminProfessionalRow `json:"data"`
		Total int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Paula Souza", list.Data[0].FullName)
	assert.Equal(t, "Enfermagem", list.Data[0].CategoryName)

	path := fmt.Sprintf("/professionals/%d/status", prof.ID)

	w = request(r, http.MethodPatch, path, gin.H{"status": "suspended"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(r, http.MethodPatch, path, gin.H{"status": models.ProfessionalInactive})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Professional
	require.NoError(t, db.First(&stored, prof.ID).Error)
	assert.Equal(t, models.ProfessionalInactive, stored.Status)

	w = request(r, http.MethodPatch, "/professionals/999/status", gin.H{"status": models.ProfessionalActive})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_ListClientsOnlyClients(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "ana@cuidar.app", "senha123", models.RoleClient, "Ana Costa")
	testutil.CreateUser(t, db, "bia@cuidar.app", "senha123", models.RoleClient, "Bia Rocha")
	testutil.CreateProfessional(t, db, "paula@cuidar.app", "Paula Souza", "Enfermagem")

	h := NewAdminHandler(db, nil, newAudit(t, db), logger.Discard())
	r := newEngine(asUser(1, models.RoleAdmin))
	r.GET("/clients", h.ListClients)

	w := request(r, http.MethodGet, "/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	w = request(r, http.MethodGet, "/clients?query=BIA", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), "Bia Rocha")
}

func TestSearch_WildcardsAreLiteral(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "ana@cuidar.app", "senha123", models.RoleClient, "Ana Costa")
	testutil.CreateUser(t, db, "dani_reis@cuidar.app", "senha123", models.RoleClient, "Dani Reis")
	testutil.CreateProfessional(t, db, "paula@cuidar.app", "Paula Souza", "Enfermagem")

	admin := NewAdminHandler(db, nil, newAudit(t, db), logger.Discard())
	r := newEngine(asUser(1, models.RoleAdmin))
	r.GET("/clients", admin.ListClients)
	r.GET("/professionals", admin.ListProfessionals)

	cases := []struct {
		path  string
		total string
	}{
		{"/clients?query=%25", `"total":0`},
		{"/clients?query=_", `"total":1`},
		{"/clients?query=a_a", `"total":0`},
		{"/professionals?query=%25", `"total":0`},
		{"/professionals?query=p_ula", `"total":0`},
	}
	for _, tc := range cases {
		w := request(r, http.MethodGet, tc.path, nil)
		require.Equal(t, http.StatusOK, w.Code, tc.path)
		assert.Contains(t, w.Body.String(), tc.total, tc.path)
	}

	w := request(r, http.MethodGet, "/clients?query=_", nil)
	assert.Contains(t, w.Body.String(), "Dani Reis")
}

func TestAuditLogs_Filters(t *testing.T) {
	db := testutil.NewDB(t)
	l := audit.New(db, logger.Discard())
	ctx := context.Background()

	uid := uint(7)
	require.NoError(t, l.Log(ctx, audit.Event{UserID: &uid, Action: "request_created", Entity: "service_request"}))
	require.NoError(t, l.Log(ctx, audit.Event{UserID: &uid, Action: "request_accepted", Entity: "service_request"}))
	require.NoError(t, l.Log(ctx, audit.Event{Action: "category_created", Entity: "category"}))

	h := NewAuditLogsHandler(db, logger.Discard())
	r := newEngine(asUser(1, models.RoleAdmin))
	r.GET("/audit-logs", h.List)

	var out struct {
		Total int64             `json:"total"`
		Logs  []models.AuditLog `json:"data"`
	}

	w := request(r, http.MethodGet, "/audit-logs?entity=service_request&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.EqualValues(t, 2, out.Total)
	assert.Len(t, out.Logs, 1)

	w = request(r, http.MethodGet, "/audit-logs?action=category_created", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.EqualValues(t, 1, out.Total)
}

func TestProfessional_ServicesAreScopedToOwner(t *testing.T) {
	db := testutil.NewDB(t)
	paula, _ := testutil.CreateProfessional(t, db, "paula@cuidar.app", "Paula Souza", "Enfermagem")
	rui, _ := testutil.CreateProfessional(t, db, "rui@cuidar.app", "Rui Alves", "Enfermagem")

	h := NewProfessionalHandler(db, nil, nil, nil, nil, nil, metrics.NewCollector(prometheus.NewRegistry()), logger.Discard())

	asPaula := newEngine(asUser(paula.ID, models.RoleProfessional))
	asPaula.POST("/services", h.CreateService)
	asPaula.GET("/services", h.ListServices)

	asRui := newEngine(asUser(rui.ID, models.RoleProfessional))
	asRui.DELETE("/services/:id", h.DeleteService)
	asRui.GET("/services", h.ListServices)

	w := request(asPaula, http.MethodPost, "/services", gin.H{"service_name": "Curativo"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var svc models.ProfessionalService
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &svc))

	assert.Contains(t, request(asRui, http.MethodGet, "/services", nil).Body.String(), `"total":0`)

	w = request(asRui, http.MethodDelete, fmt.Sprintf("/services/%d", svc.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "service_not_found")

	assert.Contains(t, request(asPaula, http.MethodGet, "/services", nil).Body.String(), `"total":1`)
}

func TestClient_LocationAndCheckoutDisabled(t *testing.T) {
	db := testutil.NewDB(t)
	client := testutil.CreateUser(t, db, "ana@cuidar.app", "senha123", models.RoleClient, "Ana Costa")

	h := NewClientHandler(db, nil, nil, nil, nil, nil, metrics.NewCollector(prometheus.NewRegistry()), logger.Discard())
	r := newEngine(asUser(client.ID, models.RoleClient))
	r.PUT("/location", h.UpdateLocation)
	r.POST("/plans/:id/checkout", h.Checkout)
	r.GET("/service-types", h.ServiceTypes)

	w := request(r, http.MethodPut, "/location", gin.H{"latitude": 123.0, "longitude": 10.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_location")

	w = request(r, http.MethodPut, "/location", gin.H{"latitude": -23.55, "longitude": -46.63})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p models.Profile
	require.NoError(t, db.Where("user_id = ?", client.ID).First(&p).Error)
	require.NotNil(t, p.Latitude)
	assert.InDelta(t, -23.55, *p.Latitude, 1e-9)

	w = request(r, http.MethodPost, "/plans/1/checkout", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "payment_disabled")

	w = request(r, http.MethodGet, "/service-types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)
	assert.Contains(t, w.Body.String(), "video_call")
}

func TestClient_ProfessionalsHidesInactive(t *testing.T) {
	db := testutil.NewDB(t)
	client := testutil.CreateUser(t, db, "ana@cuidar.app", "senha123", models.RoleClient, "Ana Costa")
	_, active := testutil.CreateProfessional(t, db, "paula@cuidar.app", "Paula Souza", "Enfermagem")
	_, inactive := testutil.CreateProfessional(t, db, "rui@cuidar.app", "Rui Alves", "Enfermagem")
	require.NoError(t, db.Model(inactive).Update("status", models.ProfessionalInactive).Error)

	h := NewClientHandler(db, nil, nil, nil, nil, nil, metrics.NewCollector(prometheus.NewRegistry()), logger.Discard())
	r := newEngine(asUser(client.ID, models.RoleClient))
	r.GET("/categories/:id/professionals", h.ListProfessionals)

	w := request(r, http.MethodGet, fmt.Sprintf("/categories/%d/professionals", active.CategoryID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Paula Souza")
	assert.NotContains(t, w.Body.String(), "Rui Alves")
	assert.Contains(t, w.Body.String(), "Atendimento domiciliar")

	w = request(r, http.MethodGet, "/categories/999/professionals", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type memStore struct {
	keys []string
}

func (m *memStore) Put(_ context.Context, key, contentType string, body []byte) (string, error) {
	m.keys = append(m.keys, key)
	return "https://fotos.test/" + key, nil
}

func multipartPhoto(t *testing.T, field string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "foto.png")
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for x := 0; x < 800; x++ {
		img.Set(x, 300, color.RGBA{R: 200, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMe_UploadPhoto(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "ana@cuidar.app", "senha123", models.RoleClient, "Ana Costa")

	store := &memStore{}
	h := NewMeHandler(db, store, logger.Discard())
	r := newEngine(asUser(u.ID, models.RoleClient))
	r.PUT("/me/photo", h.UploadPhoto)
	r.GET("/me", h.GetMe)

	body, ct := multipartPhoto(t, "photo", pngBytes(t))
	req := httptest.NewRequest(http.MethodPut, "/me/photo", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, store.keys, 1)
	assert.Contains(t, store.keys[0], fmt.Sprintf("profiles/%d/", u.ID))

	var p models.Profile
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&p).Error)
	assert.Equal(t, "https://fotos.test/"+store.keys[0], p.PhotoURL)

	w = request(r, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), p.PhotoURL)
}

func TestMe_UploadPhotoRejectsGarbageAndDisabledStore(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "ana@cuidar.app", "senha123", models.RoleClient, "Ana Costa")

	h := NewMeHandler(db, &memStore{}, logger.Discard())
	r := newEngine(asUser(u.ID, models.RoleClient))
	r.PUT("/me/photo", h.UploadPhoto)

	body, ct := multipartPhoto(t, "photo", []byte("não é imagem"))
	req := httptest.NewRequest(http.MethodPut, "/me/photo", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_image")

	disabled := NewMeHandler(db, nil, logger.Discard())
	r2 := newEngine(asUser(u.ID, models.RoleClient))
	r2.PUT("/me/photo", disabled.UploadPhoto)

	w = request(r2, http.MethodPut, "/me/photo", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMe_UploadPhotoWithoutProfileSkipsStore(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "ana@cuidar.app", "senha123", models.RoleClient, "Ana Costa")
	require.NoError(t, db.Where("user_id = ?", u.ID).Delete(&models.Profile{}).Error)

	store := &memStore{}
	h := NewMeHandler(db, store, logger.Discard())
	r := newEngine(asUser(u.ID, models.RoleClient))
	r.PUT("/me/photo", h.UploadPhoto)

	body, ct := multipartPhoto(t, "photo", pngBytes(t))
	req := httptest.NewRequest(http.MethodPut, "/me/photo", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "profile_not_found")
	assert.Empty(t, store.keys)
}
