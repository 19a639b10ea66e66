// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/epaper/internal/platform/apperr"
	"github.com/taibuivan/epaper/internal/platform/respond"
	"github.com/taibuivan/epaper/pkg/pagination"
)

/*
TestError_AppError keeps the status and code of typed errors.
*/
func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/v1/editions/2020-01-01", nil)

	respond.Error(recorder, request, apperr.NotFound("Edition"))

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeNotFound, body.Code)
	assert.Equal(t, "Edition not found", body.Error)
}

/*
TestError_PlainError hides unknown errors behind a 500.
*/
func TestError_PlainError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, errors.New("read /srv/secret: EIO"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "/srv/secret")
}

/*
TestPaginated_Envelope checks the data/meta envelope shape.
*/
func TestPaginated_Envelope(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Paginated(recorder, []string{"a", "b"}, pagination.NewMeta(pagination.Params{Limit: 2, Offset: 0}, 5))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Contains(t, body, "data")
	assert.Contains(t, body, "meta")
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
}
