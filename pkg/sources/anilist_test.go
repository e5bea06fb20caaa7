package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kerbaras/mangadl/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body.Query, "Media")
		assert.EqualValues(t, 109501, body.Variables["id"])

		fmt.Fprint(w, `{"data": {"Media": {"title": {"english": "Loving Yamada at Lv999!"}}}}`)
	}))
	t.Cleanup(server.Close)

	al := &AniList{api: utils.NewAPI(server.URL)}
	title, err := al.LookupTitle(context.Background(), 109501)
	require.NoError(t, err)
	assert.Equal(t, "Loving Yamada at Lv999!", title)
}

func TestLookupTitleMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"Media": {"title": {"english": null}}}}`)
	}))
	t.Cleanup(server.Close)

	al := &AniList{api: utils.NewAPI(server.URL)}
	_, err := al.LookupTitle(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no english title")
}
