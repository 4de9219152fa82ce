package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codemaster "github.com/codemaster-ai/codemaster"
	"github.com/codemaster-ai/codemaster/pkg/domain"
)

func TestGetHealth(t *testing.T) {
	handler := NewHandler(codemaster.New())

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	handler := NewHandler(codemaster.New())

	req, _ := http.NewRequest("GET", "/info", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "codemaster-http", resp["app"])
	assert.NotEmpty(t, resp["version"])
	assert.Equal(t, "0.1.0", resp["api_version"])
}

func TestExecute(t *testing.T) {
	handler := NewHandler(codemaster.New())

	body := `{"action": "create_session", "session_name": "http-test"}`
	req, _ := http.NewRequest("POST", "/codemaster", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp domain.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusSuccess, resp.Status)
	assert.NotEmpty(t, resp.SessionID)
	assert.Contains(t, resp.SuggestedNextActions, domain.ActionDeclareCapabilities)
}

func TestExecute_BadBody(t *testing.T) {
	handler := NewHandler(codemaster.New())

	req, _ := http.NewRequest("POST", "/codemaster", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
