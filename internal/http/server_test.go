package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/fieldcraft/fieldcraft-backend/internal/http/handlers"
)

func TestServerServesHealthcheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := NewServer(RouterConfig{HealthHandler: httpH.NewHealthHandler()})
	if srv.Engine == nil {
		t.Fatalf("server must carry the built engine")
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	srv.Engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck = %d %q", rec.Code, rec.Body.String())
	}
}
