package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"basetrack/internal/apperr"
	"basetrack/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWriteErrorMapsTaxonomyCodes(t *testing.T) {
	c, w := testContext("/x")
	writeError(c, apperr.New(apperr.CodeForbiddenScope, "access denied to this base"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, string(apperr.CodeForbiddenScope), resp.Code)
	assert.Equal(t, "access denied to this base", resp.Error)
}

func TestWriteErrorIncludesValidationFields(t *testing.T) {
	c, w := testContext("/x")
	writeError(c, apperr.Validation(
		apperr.FieldError{Field: "password", Message: "too short"},
		apperr.FieldError{Field: "email", Message: "invalid"},
	))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, string(apperr.CodeValidation), resp.Code)
	require.NotNil(t, resp.Data)
	fields, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 2)
}

func TestWriteErrorHidesUntypedErrors(t *testing.T) {
	c, w := testContext("/x")
	writeError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Empty(t, resp.Code)
}

func TestParseLedgerFiltersInclusiveRange(t *testing.T) {
	c, _ := testContext("/x?category=ammunition&start_date=2026-01-01&end_date=2026-01-31")

	filters := parseLedgerFilters(c)
	assert.Equal(t, "ammunition", filters.Category)
	require.NotNil(t, filters.StartDate)
	require.NotNil(t, filters.EndDate)
	assert.Equal(t, "2026-01-01", filters.StartDate.Format("2006-01-02"))
	// The end bound covers the whole final day.
	assert.Equal(t, "2026-01-31", filters.EndDate.Format("2006-01-02"))
	assert.Equal(t, 23, filters.EndDate.Hour())
}

func TestParseLedgerFiltersIgnoresGarbageDates(t *testing.T) {
	c, _ := testContext("/x?start_date=yesterday&end_date=2026-13-99")

	filters := parseLedgerFilters(c)
	assert.Nil(t, filters.StartDate)
	assert.Nil(t, filters.EndDate)
}
