package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"navtracker/internal/config"
	apperrors "navtracker/internal/errors"
	"navtracker/internal/metrics"
	"navtracker/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{JWTSecret: "test-secret", JWTExpirationDur: time.Hour})
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body: %v\nbody: %s", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{Base: models.Base{ID: "0190a1b2-0000-7000-8000-000000000001"}, Username: "alice"}
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID:           user.ID,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
	})
	forged, _ := foreign.SignedString([]byte("other-secret"))

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expired, _ := expiredToken.SignedString([]byte("test-secret"))

	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid_token", "Bearer " + token, http.StatusOK},
		{"missing_header", "", http.StatusUnauthorized},
		{"wrong_scheme", "Basic " + token, http.StatusUnauthorized},
		{"forged_signature", "Bearer " + forged, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := map[string]string{}
			if tt.header != "" {
				header["Authorization"] = tt.header
			}
			rec := serve(r, http.MethodGet, "/me", header)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if !strings.Contains(rec.Body.String(), user.ID) {
					t.Errorf("expected user id in body, got %s", rec.Body.String())
				}
				return
			}
			if code := errorCode(t, rec); code != "UNAUTHORIZED" {
				t.Errorf("error code = %q, want UNAUTHORIZED", code)
			}
		})
	}
}

func TestMetricsAuthMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		configuredKey string
		requestKey    string
		wantStatus    int
		wantErrorCode string
	}{
		{"valid_api_key", "secret-metrics-key", "secret-metrics-key", http.StatusOK, ""},
		{"invalid_api_key", "secret-metrics-key", "wrong-key", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"missing_api_key", "secret-metrics-key", "", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"partial_match_rejected", "secret-metrics-key", "secret-metrics", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"not_configured", "", "any-key", http.StatusServiceUnavailable, "METRICS_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/metrics", MetricsAuthMiddleware(tt.configuredKey), func(c *gin.Context) {
				c.String(http.StatusOK, "ok")
			})
			header := map[string]string{}
			if tt.requestKey != "" {
				header["X-API-Key"] = tt.requestKey
			}
			rec := serve(r, http.MethodGet, "/metrics", header)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantErrorCode != "" {
				if code := errorCode(t, rec); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
			}
		})
	}
}

func TestHTTPMetrics(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(HTTPMetrics(m))
	r.GET("/assets/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve(r, http.MethodGet, "/assets/a", nil)
	serve(r, http.MethodGet, "/assets/b", nil)
	serve(r, http.MethodGet, "/nowhere", nil)

	count, err := testutil.GatherAndCount(m.Registry(), "navtracker_http_requests_total")
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 label sets (route template and unmatched), got %d", count)
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging(), ErrorHandler())
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperrors.ErrAssetNotFound) })
	r.GET("/wrapped", func(c *gin.Context) {
		_ = c.Error(apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down")))
	})
	r.GET("/plain", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{"/app", http.StatusNotFound, "ASSET_NOT_FOUND"},
		{"/wrapped", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/plain", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(strings.TrimPrefix(tt.path, "/"), func(t *testing.T) {
			rec := serve(r, http.MethodGet, tt.path, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
			if strings.Contains(rec.Body.String(), "db down") || strings.Contains(rec.Body.String(), "boom") {
				t.Errorf("internal detail leaked: %s", rec.Body.String())
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("unexpected") })

	rec := serve(r, http.MethodGet, "/panic", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if code := errorCode(t, rec); code != "INTERNAL_ERROR" {
		t.Errorf("error code = %q, want INTERNAL_ERROR", code)
	}
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	t.Run("generates_id", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/ping", nil)
		id := rec.Header().Get("X-Request-ID")
		if id == "" || id != rec.Body.String() {
			t.Errorf("expected request id header to match context, got %q and %q", id, rec.Body.String())
		}
	})

	t.Run("reuses_valid_incoming_id", func(t *testing.T) {
		incoming := "0190a1b2-0000-7000-8000-0000000000aa"
		rec := serve(r, http.MethodGet, "/ping", map[string]string{"X-Request-ID": incoming})
		if rec.Header().Get("X-Request-ID") != incoming {
			t.Errorf("expected %s, got %s", incoming, rec.Header().Get("X-Request-ID"))
		}
	})

	t.Run("replaces_invalid_incoming_id", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/ping", map[string]string{"X-Request-ID": "<script>"})
		if rec.Header().Get("X-Request-ID") == "<script>" {
			t.Error("expected invalid request id to be replaced")
		}
	})
}
