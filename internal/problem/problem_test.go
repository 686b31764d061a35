package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	p := New()
	assert.Equal(t, "about:blank", p.Type)
	assert.Equal(t, http.StatusInternalServerError, p.Status)
	assert.Equal(t, "Internal Server Error", p.Title)

	c := Conflict("taken")
	assert.Equal(t, http.StatusConflict, c.Status)
	assert.Equal(t, "Conflict", c.Title)
	assert.Equal(t, "taken", c.Detail)
}

func TestValidation_CollectsParams(t *testing.T) {
	p := Validation(
		[]InvalidParam{{Name: "title", Reason: "is required"}},
		WithInvalidParam("genre", "is required"),
		WithInstance("/v1/movies/1"),
	)
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, "/v1/movies/1", p.Instance)
	assert.Equal(t, []InvalidParam{
		{Name: "genre", Reason: "is required"},
		{Name: "title", Reason: "is required"},
	}, p.InvalidParams)
}

func TestSend(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Send(c, BadRequest("invalid id", WithTraceID("abc"))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get(echo.HeaderContentType))

	var got Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "invalid id", got.Detail)
	assert.Equal(t, "abc", got.TraceID)
	assert.Empty(t, got.InvalidParams)
}
