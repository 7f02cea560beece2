package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ratul0407/collab-study-server/internal/auth"
	"github.com/ratul0407/collab-study-server/internal/config"
	"github.com/ratul0407/collab-study-server/internal/model"
)

type Server struct {
	cfg    config.Config
	store  Store
	redis  *redis.Client
	logger *zap.Logger
}

func NewServer(cfg config.Config, store Store, redisClient *redis.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:    cfg,
		store:  store,
		redis:  redisClient,
		logger: logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(corsMiddleware(s.cfg.CORSOrigins))
	r.Use(s.requestLogger)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Welcome to study house let's prepare......"))
	})
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/jwt", s.handleIssueToken)
	r.Post("/users/{email}", s.handleRegisterUser)
	r.Get("/users/role/{email}", s.handleGetRole)
	r.Get("/tutors", s.handleListTutors)
	r.Get("/sessions-home", s.handleHomeSessions)

	r.With(s.authMiddleware, s.requireAdmin).Get("/users/{email}", s.handleListUsers)
	r.With(s.authMiddleware, s.requireAdmin).Get("/usersCount", s.handleUsersCount)
	r.With(s.authMiddleware, s.requireAdmin).Patch("/users/role/{id}", s.handleSetRole)

	r.With(s.authMiddleware, s.requireTutor).Post("/add-session", s.handleCreateSession)
	r.With(s.authMiddleware).Get("/study-session/{email}", s.handleSessionsByTutor)
	r.With(s.authMiddleware, s.requireAdmin).Get("/sessions", s.handleSessionsGrouped)
	r.With(s.authMiddleware, s.requireAdmin).Patch("/update-session/{id}", s.handleUpdateSession)
	r.With(s.authMiddleware, s.requireTutorOrAdmin).Patch("/session/{id}", s.handleSetSessionStatus)
	r.With(s.authMiddleware).Get("/session/{id}", s.handleGetSession)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/session/{id}", s.handleDeleteSession)
	r.With(s.authMiddleware, s.requireAdmin).Patch("/reject-session/{id}", s.handleRejectSession)

	r.With(s.authMiddleware).Post("/notes", s.handleCreateNote)
	r.With(s.authMiddleware).Get("/notes/{email}", s.handleListNotes)
	r.With(s.authMiddleware).Patch("/notes/{id}", s.handleUpdateNote)
	r.With(s.authMiddleware).Delete("/notes/{id}", s.handleDeleteNote)

	r.With(s.authMiddleware).Post("/booked-session", s.handleBookSession)
	r.With(s.authMiddleware).Get("/booked-session/{email}", s.handleListBookings)
	r.With(s.authMiddleware).Post("/reviews", s.handleCreateReview)

	r.With(s.authMiddleware, s.requireTutor).Post("/materials", s.handleCreateMaterial)
	r.With(s.authMiddleware, s.requireAdmin).Get("/materials", s.handleListMaterials)
	r.With(s.authMiddleware, s.requireTutorOrAdmin).Get("/materials/{email}", s.handleMaterialsByTutor)
	r.With(s.authMiddleware, s.requireTutorOrAdmin).Patch("/material/{id}", s.handleUpdateMaterial)
	r.With(s.authMiddleware, s.requireTutorOrAdmin).Delete("/material/{id}", s.handleDeleteMaterial)

	return r
}

type tokenRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "missing_email")
		return
	}

	token, err := auth.NewAccessToken(s.cfg.AccessTokenSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type healthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]healthCheck)
	status := "UP"
	httpStatus := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		checks["database"] = healthCheck{Status: "DOWN", Message: "cannot reach database"}
		status = "DOWN"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = healthCheck{Status: "UP"}
	}

	if s.redis == nil {
		checks["redis"] = healthCheck{Status: "DISABLED"}
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = healthCheck{Status: "DOWN", Message: "cannot reach redis"}
		status = "DOWN"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["redis"] = healthCheck{Status: "UP"}
	}

	writeJSON(w, httpStatus, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}

		claims, err := auth.ParseToken(s.cfg.AccessTokenSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireTutor(next http.Handler) http.Handler {
	return s.requireRole(next, "tutor_only", model.RoleTutor)
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return s.requireRole(next, "admin_only", model.RoleAdmin)
}

func (s *Server) requireTutorOrAdmin(next http.Handler) http.Handler {
	return s.requireRole(next, "tutor_or_admin_only", model.RoleTutor, model.RoleAdmin)
}

// requireRole resolves the caller's role from the user directory on
// every request; a revoked role is effective immediately. A deny
// writes the response and never reaches the wrapped handler.
func (s *Server) requireRole(next http.Handler, denyCode string, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}

		role, err := s.store.GetRoleByEmail(r.Context(), claims.Email)
		if err != nil {
			writeError(w, http.StatusForbidden, denyCode)
			return
		}
		allowed := false
		for _, candidate := range roles {
			if role == candidate {
				allowed = true
				break
			}
		}
		if !allowed {
			writeError(w, http.StatusForbidden, denyCode)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func decodeJSON(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
