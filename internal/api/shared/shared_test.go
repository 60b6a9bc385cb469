package shared

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = SetTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 2*TraceIDLength)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)

	assert.NotEqual(t, id, GetTraceID(SetTraceID(context.Background())))
}

func TestUserContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), &domain.User{ID: 3})
	u, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), u.ID)
}

func TestDecodeAndValidate(t *testing.T) {
	type body struct {
		Name string `json:"name" validate:"required"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	var b body
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &b))
	assert.NoError(t, ValidateRequest(&b))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &b), ErrInvalidBody)

	assert.Error(t, ValidateRequest(&body{}))
}

func TestRespondWithErrorAndLog(t *testing.T) {
	buf := &logger.TestLogBuffer{}
	ctx := logger.WithLogger(SetTraceID(context.Background()), logger.New(buf, slog.LevelDebug))
	r := httptest.NewRequest(http.MethodGet, "/api/x", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Internal server error",
		assertErr("dial postgres://u:pw@db/ledger"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Internal server error", resp.Error)
	assert.Equal(t, GetTraceID(ctx), resp.TraceID)

	assert.NotContains(t, buf.String(), "u:pw")
	assert.Contains(t, buf.String(), "[REDACTED_CREDENTIAL]")
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
