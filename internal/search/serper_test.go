package search_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aum2411/Task-4-Raag/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serperFixture = `{
	"organic": [
		{"title": "Go (programming language)", "link": "https://en.wikipedia.org/wiki/Go", "snippet": "Go is a statically typed language.", "date": "2024-01-01", "position": 1},
		{"title": "The Go Programming Language", "link": "https://go.dev", "snippet": "Build simple, secure, scalable systems.", "position": 2}
	],
	"answerBox": {"snippet": "Go is an open source programming language."},
	"relatedSearches": [{"query": "golang tutorial"}, {"query": "go vs rust"}]
}`

func TestSerperSearch(t *testing.T) {
	var gotKey string
	var gotReq map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotKey = r.Header.Get("X-API-KEY")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(serperFixture))
	}))
	defer srv.Close()

	client, err := search.NewSerperClient("serper-key", srv.URL)
	require.NoError(t, err)

	res, err := client.Search(context.Background(), "what is go", 5)
	require.NoError(t, err)

	assert.Equal(t, "serper-key", gotKey)
	assert.Equal(t, "what is go", gotReq["q"])
	assert.Equal(t, float64(5), gotReq["num"])

	assert.Equal(t, "what is go", res.Query)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "Go (programming language)", res.Results[0].Title)
	assert.Equal(t, "https://go.dev", res.Results[1].Link)
	assert.Equal(t, "Go is an open source programming language.", res.AnswerBox)
	assert.Equal(t, []string{"golang tutorial", "go vs rust"}, res.Related)
}

func TestSerperErrors(t *testing.T) {
	t.Run("MissingKey", func(t *testing.T) {
		_, err := search.NewSerperClient("", "")
		assert.ErrorIs(t, err, search.ErrNoAPIKey)
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		client, err := search.NewSerperClient("key", "http://localhost:0")
		require.NoError(t, err)
		_, err = client.Search(context.Background(), "", 5)
		assert.Error(t, err)
	})

	t.Run("HTTPError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client, err := search.NewSerperClient("key", srv.URL)
		require.NoError(t, err)
		_, err = client.Search(context.Background(), "anything", 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})
}
