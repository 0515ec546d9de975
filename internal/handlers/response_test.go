package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/doorflow/doorflow-backend/internal/apierr"
)

func recordServiceError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondServiceError(c, err)

	var envelope ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	return w, envelope
}

func TestRespondServiceError_MapsTaxonomy(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apierr.Validation("bad date"), http.StatusBadRequest, "validation_error"},
		{"not found", apierr.NotFound("no such job"), http.StatusNotFound, "not_found"},
		{"conflict", apierr.Conflict("already active"), http.StatusConflict, "conflict"},
		{"forbidden", apierr.Forbidden("wrong truck"), http.StatusForbidden, "forbidden"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		w, envelope := recordServiceError(t, tc.err)
		if w.Code != tc.wantStatus {
			t.Fatalf("%s: status = %d, want %d", tc.name, w.Code, tc.wantStatus)
		}
		if envelope.Error.Code != tc.wantCode {
			t.Fatalf("%s: code = %q, want %q", tc.name, envelope.Error.Code, tc.wantCode)
		}
		if envelope.Error.Message == "" {
			t.Fatalf("%s: empty message", tc.name)
		}
	}
}

func TestRespondServiceError_WrappedErrorKeepsStatus(t *testing.T) {
	wrapped := apierr.Internal(apierr.Conflict("inner"))
	w, _ := recordServiceError(t, wrapped)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 from the outermost error", w.Code)
	}
}
