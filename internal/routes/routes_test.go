package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/audit"
	"github.com/BruksfildServices01/care-marketplace/internal/auth"
	"github.com/BruksfildServices01/care-marketplace/internal/config"
	"github.com/BruksfildServices01/care-marketplace/internal/infra/payment"
	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/metrics"
	"github.com/BruksfildServices01/care-marketplace/internal/middleware"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/notify"
	"github.com/BruksfildServices01/care-marketplace/internal/session"
	"github.com/BruksfildServices01/care-marketplace/internal/testutil"
)

type fakeGateway struct{}

func (fakeGateway) CreateCheckout(_ context.Context, item payment.CheckoutItem) (*payment.Checkout, error) {
	return &payment.Checkout{
		PreferenceID: "pref-" + item.Reference,
		URL:          "https://pagamento.test/" + item.Reference,
	}, nil
}

type server struct {
	t      *testing.T
	db     *gorm.DB
	auth   *auth.Service
	router *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	log := logger.Discard()
	cfg := &config.Config{Env: config.EnvLocal, LoginRatePerMin: 1000}

	authSvc := auth.NewService(
		db,
		session.NewMemoryStore(),
		auth.NewTokenIssuer("segredo", time.Hour),
		log,
		auth.WithHashCost(bcrypt.MinCost),
	)

	auditDispatcher := audit.NewDispatcher(audit.New(db, log), log)
	t.Cleanup(auditDispatcher.Close)

	notifyDispatcher := notify.NewDispatcher(db, nil, log)
	t.Cleanup(notifyDispatcher.Close)

	limiter := middleware.NewRateLimiter(cfg.LoginRatePerMin, time.Minute)
	t.Cleanup(limiter.Stop)

	r := gin.New()
	RegisterRoutes(r, db, cfg, Deps{
		Auth:       authSvc,
		Audit:      auditDispatcher,
		Notify:     notifyDispatcher,
		Metrics:    metrics.NewCollector(prometheus.NewRegistry()),
		LoginLimit: limiter,
		Payments:   fakeGateway{},
		Log:        log,
	})

	return &server{t: t, db: db, auth: authSvc, router: r}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) login(email, password string) string {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	decode(s.t, w, &res)
	return res.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"error_code"`
	}
	decode(t, w, &body)
	return body.Code
}

// --------------------------------------------------------------------------

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "x@y.com", "password": "errada"})

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "care_logins_total")
}

func TestRoleGroupsAreEnforced(t *testing.T) {
	s := newServer(t)
	testutil.CreateUser(t, s.db, "cli@cuidar.app", "senha123", models.RoleClient, "Carla")
	token := s.login("cli@cuidar.app", "senha123")

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/me", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/me", token, nil).Code)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/admin/dashboard", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/professional/requests", token, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/client/requests", token, nil).Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	s := newServer(t)
	testutil.CreateUser(t, s.db, "cli@cuidar.app", "senha123", models.RoleClient, "Carla")
	token := s.login("cli@cuidar.app", "senha123")

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/me", token, nil).Code)
}

func TestMarketplaceFlow(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	// ---- admin prepara o catálogo ----
	_, err := s.auth.EnsureAdmin(ctx, "admin@cuidar.app", "admin123")
	require.NoError(t, err)
	adminToken := s.login("admin@cuidar.app", "admin123")

	w := s.do(http.MethodPost, "/api/admin/categories", adminToken, gin.H{"name": "Enfermagem"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cat models.Category
	decode(t, w, &cat)

	w = s.do(http.MethodPost, "/api/admin/categories", adminToken, gin.H{"name": "Enfermagem"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "category_already_exists", errorCode(t, w))

	w = s.do(http.MethodPost, "/api/admin/professionals", adminToken, gin.H{
		"email":            "paula@cuidar.app",
		"password":         "senha123",
		"full_name":        "Paula Souza",
		"category_id":      cat.ID,
		"experience_years": 7,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		UserID uint `json:"user_id"`
	}
	decode(t, w, &created)

	w = s.do(http.MethodPost, "/api/admin/plans", adminToken, gin.H{
		"name": "Mensal", "price": 199.9, "duration_type": "monthly",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var plan models.Plan
	decode(t, w, &plan)

	// ---- cliente se cadastra e abre um chamado ----
	w = s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":            "carla@cuidar.app",
		"password":         "senha123",
		"confirm_password": "senha123",
		"accepted_terms":   true,
		"full_name":        "Carla Lima",
		"city":             "Campinas",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reg struct {
		Token string `json:"token"`
	}
	decode(t, w, &reg)
	clientToken := reg.Token

	w = s.do(http.MethodGet, fmt.Sprintf("/api/client/categories/%d/professionals", cat.ID), clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pros struct {
		Data []struct {
			ID           uint   `json:"id"`
			Name         string `json:"name"`
			Description  string `json:"description"`
			CategoryName string `json:"category_name"`
		} `json:"data"`
	}
	decode(t, w, &pros)
	require.Len(t, pros.Data, 1)
	assert.Equal(t, created.UserID, pros.Data[0].ID)
	assert.Equal(t, "Paula Souza", pros.Data[0].Name)
	assert.Equal(t, "Profissional qualificado", pros.Data[0].Description)
	assert.Equal(t, "Enfermagem", pros.Data[0].CategoryName)

	w = s.do(http.MethodPost, "/api/client/requests", clientToken, gin.H{
		"professional_id": created.UserID,
		"service_type":    "video_call",
		"notes":           "<b>Preciso de ajuda</b>",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_content", errorCode(t, w))

	w = s.do(http.MethodPost, "/api/client/requests", clientToken, gin.H{
		"professional_id": created.UserID,
		"service_type":    "video_call",
		"notes":           "  Preciso de ajuda  ",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var opened struct {
		Request             models.ServiceRequest `json:"request"`
		ConversationCreated bool                  `json:"conversation_created"`
		Warnings            []string              `json:"warnings"`
	}
	decode(t, w, &opened)
	assert.Equal(t, "pending", opened.Request.Status)
	assert.Equal(t, "Preciso de ajuda", opened.Request.Notes)
	assert.True(t, opened.ConversationCreated)
	assert.Empty(t, opened.Warnings)

	// ---- profissional responde ----
	proToken := s.login("paula@cuidar.app", "senha123")
	reqPath := fmt.Sprintf("/api/professional/requests/%d", opened.Request.ID)

	w = s.do(http.MethodPatch, reqPath+"/reject", proToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "confirmation_required", errorCode(t, w))

	w = s.do(http.MethodPatch, reqPath+"/complete", proToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", errorCode(t, w))

	w = s.do(http.MethodPatch, reqPath+"/accept", proToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var accepted struct {
		Request             models.ServiceRequest `json:"request"`
		ConversationCreated bool                  `json:"conversation_created"`
	}
	decode(t, w, &accepted)
	assert.Equal(t, "accepted", accepted.Request.Status)
	assert.False(t, accepted.ConversationCreated)

	// ---- conversa ----
	w = s.do(http.MethodGet, "/api/conversations", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var convs struct {
		Conversations []struct {
			ID              uint   `json:"id"`
			CounterpartName string `json:"counterpart_name"`
			LastMessage     string `json:"last_message"`
			Unread          bool   `json:"unread"`
		} `json:"conversations"`
		PollIntervalMs int64 `json:"poll_interval_ms"`
	}
	decode(t, w, &convs)
	require.Len(t, convs.Conversations, 1)
	assert.Equal(t, "Paula Souza", convs.Conversations[0].CounterpartName)
	assert.Equal(t, "Sem mensagens", convs.Conversations[0].LastMessage)
	assert.False(t, convs.Conversations[0].Unread)
	assert.Equal(t, int64(5000), convs.PollIntervalMs)

	msgPath := fmt.Sprintf("/api/conversations/%d/messages", convs.Conversations[0].ID)
	w = s.do(http.MethodPost, msgPath, clientToken, gin.H{"content": "Olá, Paula!"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, msgPath, proToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var thread struct {
		Messages []struct {
			Content    string `json:"content"`
			SenderName string `json:"sender_name"`
			IsMine     bool   `json:"is_mine"`
		} `json:"messages"`
		PollIntervalMs int64 `json:"poll_interval_ms"`
	}
	decode(t, w, &thread)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, "Olá, Paula!", thread.Messages[0].Content)
	assert.Equal(t, "Carla Lima", thread.Messages[0].SenderName)
	assert.False(t, thread.Messages[0].IsMine)
	assert.Equal(t, int64(3000), thread.PollIntervalMs)

	w = s.do(http.MethodGet, msgPath+"?since=ontem", proToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, msgPath+"?after_id=ultimo", proToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_after_id", errorCode(t, w))

	// ---- conclusão e avaliação ----
	w = s.do(http.MethodPatch, reqPath+"/complete", proToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var completed struct {
		Appointment models.Appointment `json:"appointment"`
	}
	decode(t, w, &completed)
	require.NotZero(t, completed.Appointment.ID)

	ratePath := fmt.Sprintf("/api/client/appointments/%d/rating", completed.Appointment.ID)

	w = s.do(http.MethodPost, ratePath, clientToken, gin.H{"rating": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_rating", errorCode(t, w))

	w = s.do(http.MethodPost, ratePath, clientToken, gin.H{"rating": 5, "comment": "Excelente"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, ratePath, clientToken, gin.H{"rating": 4})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_rated", errorCode(t, w))

	w = s.do(http.MethodGet, "/api/client/history", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Data []struct {
			CounterpartName string `json:"counterpart_name"`
			Rating          *int   `json:"rating"`
		} `json:"data"`
	}
	decode(t, w, &history)
	require.Len(t, history.Data, 1)
	assert.Equal(t, "Paula Souza", history.Data[0].CounterpartName)
	require.NotNil(t, history.Data[0].Rating)
	assert.Equal(t, 5, *history.Data[0].Rating)

	// ---- checkout do plano ----
	w = s.do(http.MethodPost, fmt.Sprintf("/api/client/plans/%d/checkout", plan.ID), clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "checkout_url")

	// ---- painéis ----
	w = s.do(http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clients":1,"professionals":1,"appointments":1,"requests":1}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/professional/dashboard", proToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"completed":1,"pending":0,"today":1,"total":1}`, w.Body.String())

	// categoria em uso não sai
	w = s.do(http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", cat.ID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "category_in_use", errorCode(t, w))
}
