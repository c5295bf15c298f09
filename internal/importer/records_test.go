package importer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
)

func TestLoadClassPosts(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/export/index.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"entries":["%s/export/1.json","%s/export/2.json","%s/export/broken.json"]}`,
			srv.URL, srv.URL, srv.URL)
	})
	mux.HandleFunc("/export/1.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"key": "board-1",
			"title": "Graduation photos",
			"body": "Photos from the ceremony.",
			"scope": "CLASSROOM",
			"group_id": 3,
			"author_id": 11,
			"posted_at": "2024-02-20T10:00:00Z",
			"attachments": [{"file_name": "grad.jpg", "file_url": "https://old/grad.jpg", "mime_type": "image/jpeg"}]
		}`))
	})
	mux.HandleFunc("/export/2.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"key": "board-2", "title": "Notice", "author_id": 11, "posted_at": "2024-03-01T08:00:00Z"}`))
	})
	mux.HandleFunc("/export/broken.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	f := NewFetcher(2, time.Millisecond, zap.NewNop())
	posts, failed, err := LoadClassPosts(context.Background(), f, srv.URL+"/export/index.json", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	require.Len(t, posts, 2)

	first := posts[0]
	assert.Equal(t, "Graduation photos", first.Title)
	require.NotNil(t, first.LegacyKey)
	assert.Equal(t, "board-1", *first.LegacyKey)
	assert.Equal(t, models.ScopeClassroom, first.AudienceScope)
	require.NotNil(t, first.OwnerGroupID)
	assert.Equal(t, uint(3), *first.OwnerGroupID)
	require.NotNil(t, first.PublishedAt)
	require.Len(t, first.Attachments, 1)
	assert.Equal(t, "grad.jpg", first.Attachments[0].FileName)

	// Entries without a scope default to the widest audience.
	assert.Equal(t, models.ScopeAll, posts[1].AudienceScope)
}

func TestLoadClassPostsFailsOnUnreachableIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(2, time.Millisecond, zap.NewNop())
	_, _, err := LoadClassPosts(context.Background(), f, srv.URL+"/missing.json", zap.NewNop())
	assert.Error(t, err)
}
