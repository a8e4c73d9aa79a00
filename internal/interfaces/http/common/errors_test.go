package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diary "github.com/sngm3741/makoto-diary/api/internal/diary/domain"
	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
)

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.Invalid("タイトルと本文を入力してください"), http.StatusBadRequest, "タイトルと本文を入力してください"},
		{"not found", fmt.Errorf("get: %w", apperr.ErrNotFound), http.StatusNotFound, MessageNotFound},
		{"store offline", fmt.Errorf("create: %w", apperr.ErrOffline), http.StatusServiceUnavailable, MessageOffline},
		{"generation offline", diary.ErrGenerationOffline, http.StatusServiceUnavailable, MessageGenerationOffline},
		{"not configured", diary.ErrGeneratorNotConfigured, http.StatusInternalServerError, "OpenAI API key is not configured"},
		{"provider", &diary.GenerationError{Status: 429, Message: "Rate limit reached"}, http.StatusInternalServerError, "Rate limit reached"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, MessageInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(nil, rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.message, body.Error)
		})
	}
}

func TestValidatorTranslatesMessages(t *testing.T) {
	type payload struct {
		Month string `json:"month" label:"月" validate:"required"`
		Count int    `json:"count" validate:"min=1"`
	}
	v := NewValidator()

	err := v.Struct(payload{Count: 1})
	validation, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "月", validation.Field)
	assert.Contains(t, validation.Message, "月")

	err = v.Struct(payload{Month: "2024-05"})
	validation, ok = apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "count", validation.Field)

	assert.NoError(t, v.Struct(payload{Month: "2024-05", Count: 2}))
}

func TestFlexStringAcceptsNumbers(t *testing.T) {
	var payload struct {
		Minutes FlexString `json:"courseMinutes"`
		Other   FlexString `json:"other"`
		Missing FlexString `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"courseMinutes":60,"other":" 90 ","missing":null}`), &payload))
	assert.Equal(t, "60", payload.Minutes.String())
	assert.Equal(t, "90", payload.Other.String())
	assert.Equal(t, "", payload.Missing.String())
}

func TestParseIndex(t *testing.T) {
	index, ok := ParseIndex("2", 0)
	assert.True(t, ok)
	assert.Equal(t, 2, index)

	index, ok = ParseIndex("-1", 0)
	assert.False(t, ok)
	assert.Equal(t, 0, index)

	_, ok = ParseIndex("", 0)
	assert.False(t, ok)
}
