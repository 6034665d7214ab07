package requests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequestIssuesAuthenticatedGet(t *testing.T) {
	var gotMethod, gotToken, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotToken = r.Header.Get("X-Riot-Token")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	resp, err := AuthRequest(context.Background(), "key-123", server.URL, map[string]string{"start": "0"})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "key-123", gotToken)
	assert.Equal(t, "start=0", gotQuery)
}
