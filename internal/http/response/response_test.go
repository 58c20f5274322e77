package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fieldcraft/fieldcraft-backend/internal/pkg/errs"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/apierr"
)

func respondMapped(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondMapped(c, err)

	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec, envelope
}

func TestRespondMappedAPIError(t *testing.T) {
	rec, envelope := respondMapped(t, apierr.New(http.StatusBadRequest, "unsupported_platform", fmt.Errorf("no adapter")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if envelope.Error.Code != "unsupported_platform" || envelope.Error.Message != "no adapter" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestRespondMappedSentinels(t *testing.T) {
	rec, envelope := respondMapped(t, fmt.Errorf("%w: campaign", errs.ErrNotFound))
	if rec.Code != http.StatusNotFound || envelope.Error.Code != "not_found" {
		t.Fatalf("not-found mapping wrong: %d %+v", rec.Code, envelope)
	}

	rec, envelope = respondMapped(t, fmt.Errorf("boom"))
	if rec.Code != http.StatusInternalServerError || envelope.Error.Code != "internal" {
		t.Fatalf("default mapping wrong: %d %+v", rec.Code, envelope)
	}
}
