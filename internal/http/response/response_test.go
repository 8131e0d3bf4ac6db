package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/sitebuilder-backend/internal/platform/apierr"
)

func record(t *testing.T, err error) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondAPIError(c, err)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestRespondAPIErrorUsesStatusAndCode(t *testing.T) {
	err := fmt.Errorf("download: %w", apierr.NotReady("website not yet generated"))
	status, env := record(t, err)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apierr.CodeNotReady, env.Error.Code)
	assert.Equal(t, "website not yet generated", env.Error.Message)
	assert.Nil(t, env.Error.Details)
}

func TestRespondAPIErrorCarriesDetails(t *testing.T) {
	status, env := record(t, apierr.Upstream(errors.New("timeout")).WithDetail("id", "abc"))

	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, apierr.CodeGenerationFailed, env.Error.Code)
	assert.Equal(t, "abc", env.Error.Details["id"])
}

func TestRespondAPIErrorHidesUnknownErrors(t *testing.T) {
	status, env := record(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, apierr.CodeInternal, env.Error.Code)
	assert.NotContains(t, env.Error.Message, "pq")
}
