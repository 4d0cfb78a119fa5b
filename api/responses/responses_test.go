package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/danhewitt/motorline-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

func TestWriteError_TypedValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "year is required").
		WithDetails(map[string]string{"year": "is required"})
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, 400, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
	assert.Equal(t, "year is required", envelope.Error.Message)
	assert.NotNil(t, envelope.Error.Details)
}

func TestWriteError_UntypedHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("pq: connection refused"))

	assert.Equal(t, 500, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, string(pkgerrors.CodeInternal), envelope.Error.Code)
	assert.Equal(t, "internal server error", envelope.Error.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWriteError_NotFoundKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeNotFound, "classified not found"))

	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "classified not found")
}
