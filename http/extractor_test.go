package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/seocrawl"
	seohttp "github.com/fwojciec/seocrawl/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorClient_ExtractPage(t *testing.T) {
	t.Parallel()

	t.Run("posts page URL and decodes data", func(t *testing.T) {
		t.Parallel()

		var gotURL, gotMethod, gotContentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			var req struct {
				PageURL string `json:"pageUrl"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			gotURL = req.PageURL
			_, _ = w.Write([]byte(`{"success":true,"data":{
				"title":"Plumbing",
				"metaDescription":"24h plumbers",
				"textContent":"We fix pipes.",
				"headings":[{"level":1,"text":"Plumbing"}],
				"links":["https://x.com/contact"]
			}}`))
		}))
		defer srv.Close()

		client := seohttp.NewExtractorClient(srv.URL, srv.Client())
		page, err := client.ExtractPage(context.Background(), "https://x.com/plumbing")

		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "https://x.com/plumbing", gotURL)
		assert.Equal(t, &seocrawl.ExtractedPage{
			Title:           "Plumbing",
			MetaDescription: "24h plumbers",
			TextContent:     "We fix pipes.",
			Headings:        []seocrawl.Heading{{Level: 1, Text: "Plumbing"}},
			Links:           []string{"https://x.com/contact"},
		}, page)
	})

	t.Run("returns error for non-2xx response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream timeout", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := seohttp.NewExtractorClient(srv.URL, srv.Client()).ExtractPage(context.Background(), "https://x.com")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "upstream timeout")
	})

	t.Run("returns error when success is false", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":false,"error":"blocked"}`))
		}))
		defer srv.Close()

		_, err := seohttp.NewExtractorClient(srv.URL, srv.Client()).ExtractPage(context.Background(), "https://x.com")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked")
	})

	t.Run("returns error for invalid JSON", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer srv.Close()

		_, err := seohttp.NewExtractorClient(srv.URL, srv.Client()).ExtractPage(context.Background(), "https://x.com")

		require.Error(t, err)
	})
}
