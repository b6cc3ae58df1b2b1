package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/stretchr/testify/require"
)

// decodeResponse unmarshals the envelope and, when data is non-nil, its payload.
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, data any) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	if data != nil {
		raw, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, data))
	}

	return resp
}
