package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
)

func legacyPost(key, title string, attachments ...string) *models.ClassPost {
	k := key
	postedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	post := &models.ClassPost{
		Title: title,
		Body:  "migrated body",
		Publication: models.Publication{
			LegacyKey:   &k,
			PublishedAt: &postedAt,
		},
	}
	for i, name := range attachments {
		post.Attachments = append(post.Attachments, models.PostAttachment{
			FileName:  name,
			FileURL:   "https://old.example/" + name,
			SortOrder: i,
		})
	}
	return post
}

func TestImportBatchRejectsUnknownMode(t *testing.T) {
	repo, _ := newPostRepo(t)

	_, err := repo.ImportBatch(context.Background(), nil, "merge")
	assert.ErrorIs(t, err, ErrBadImportMode)
}

func TestImportBatchInsertsPublished(t *testing.T) {
	repo, database := newPostRepo(t)

	sum, err := repo.ImportBatch(context.Background(), []*models.ClassPost{
		legacyPost("old-1", "First", "photo.jpg"),
		legacyPost("old-2", "Second"),
	}, ImportModeSkip)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Inserted: 2}, sum)

	var stored models.ClassPost
	require.NoError(t, database.Preload("Attachments").
		First(&stored, "legacy_key = ?", "old-1").Error)
	assert.Equal(t, models.StatusPublished, stored.Status)
	require.NotNil(t, stored.PublishedAt)
	assert.Equal(t, 2024, stored.PublishedAt.Year())
	assert.Equal(t, 1, stored.Version)
	assert.Len(t, stored.Attachments, 1)
}

func TestImportBatchSkipIsIdempotent(t *testing.T) {
	repo, _ := newPostRepo(t)
	ctx := context.Background()

	batch := []*models.ClassPost{
		legacyPost("old-1", "First"),
		legacyPost("old-2", "Second"),
		legacyPost("old-3", "Third"),
	}
	sum, err := repo.ImportBatch(ctx, batch, ImportModeSkip)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Inserted)

	again := []*models.ClassPost{
		legacyPost("old-1", "First"),
		legacyPost("old-2", "Second"),
		legacyPost("old-3", "Third"),
	}
	sum, err = repo.ImportBatch(ctx, again, ImportModeSkip)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Skipped: 3}, sum)
}

func TestImportBatchRefreshReplacesChildren(t *testing.T) {
	repo, database := newPostRepo(t)
	ctx := context.Background()

	_, err := repo.ImportBatch(ctx, []*models.ClassPost{
		legacyPost("old-1", "First", "a.jpg", "b.jpg", "c.jpg"),
	}, ImportModeSkip)
	require.NoError(t, err)

	sum, err := repo.ImportBatch(ctx, []*models.ClassPost{
		legacyPost("old-1", "First, corrected", "only.jpg"),
	}, ImportModeRefresh)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Updated: 1}, sum)

	var stored models.ClassPost
	require.NoError(t, database.Preload("Attachments").
		First(&stored, "legacy_key = ?", "old-1").Error)
	assert.Equal(t, "First, corrected", stored.Title)
	assert.Equal(t, 2, stored.Version)
	require.Len(t, stored.Attachments, 1)
	assert.Equal(t, "only.jpg", stored.Attachments[0].FileName)
}

func TestImportBatchCountsBadRecords(t *testing.T) {
	repo, _ := newPostRepo(t)

	noKey := &models.ClassPost{Title: "keyless"}
	sum, err := repo.ImportBatch(context.Background(), []*models.ClassPost{
		noKey,
		legacyPost("old-1", "First"),
		legacyPost("old-1", "First again"),
	}, ImportModeSkip)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Inserted: 1, Skipped: 1, Failed: 1}, sum)
}
