package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
)

// index is the shape of the legacy site's export listing: one URL per
// content entry.
type index struct {
	Entries []string `json:"entries"`
}

// legacyPost mirrors one exported entry of the old site's post board.
type legacyPost struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Scope       string    `json:"scope"`
	GroupID     *uint     `json:"group_id"`
	AuthorID    uint      `json:"author_id"`
	PostedAt    time.Time `json:"posted_at"`
	Topic       string    `json:"topic"`
	SourceURL   string    `json:"source_url"`
	Attachments []struct {
		FileName string `json:"file_name"`
		FileURL  string `json:"file_url"`
		MimeType string `json:"mime_type"`
	} `json:"attachments"`
}

func (lp legacyPost) publication() models.Publication {
	key := lp.Key
	postedAt := lp.PostedAt
	scope := models.AudienceScope(lp.Scope)
	if scope == "" {
		scope = models.ScopeAll
	}
	return models.Publication{
		AudienceScope: scope,
		OwnerGroupID:  lp.GroupID,
		AuthorID:      lp.AuthorID,
		PublishedAt:   &postedAt,
		LegacyKey:     &key,
	}
}

// LoadClassPosts fetches the legacy post index and every entry behind it.
// A single entry that cannot be fetched or decoded is dropped and counted;
// only an unreachable index fails the load.
func LoadClassPosts(ctx context.Context, f *Fetcher, indexURL string, logger *zap.Logger) ([]*models.ClassPost, int, error) {
	return loadEntries(ctx, f, indexURL, logger, func(lp legacyPost) *models.ClassPost {
		post := &models.ClassPost{
			Title:       lp.Title,
			Body:        lp.Body,
			Publication: lp.publication(),
		}
		for i, a := range lp.Attachments {
			post.Attachments = append(post.Attachments, models.PostAttachment{
				FileName:  a.FileName,
				FileURL:   a.FileURL,
				MimeType:  a.MimeType,
				SortOrder: i,
			})
		}
		return post
	})
}

func LoadParentEdPosts(ctx context.Context, f *Fetcher, indexURL string, logger *zap.Logger) ([]*models.ParentEdPost, int, error) {
	return loadEntries(ctx, f, indexURL, logger, func(lp legacyPost) *models.ParentEdPost {
		post := &models.ParentEdPost{
			Title:       lp.Title,
			Body:        lp.Body,
			Topic:       lp.Topic,
			Publication: lp.publication(),
		}
		for i, a := range lp.Attachments {
			post.Attachments = append(post.Attachments, models.EduAttachment{
				FileName:  a.FileName,
				FileURL:   a.FileURL,
				MimeType:  a.MimeType,
				SortOrder: i,
			})
		}
		return post
	})
}

func LoadBulletins(ctx context.Context, f *Fetcher, indexURL string, logger *zap.Logger) ([]*models.NutritionBulletin, int, error) {
	return loadEntries(ctx, f, indexURL, logger, func(lp legacyPost) *models.NutritionBulletin {
		return &models.NutritionBulletin{
			Title:       lp.Title,
			Body:        lp.Body,
			SourceURL:   lp.SourceURL,
			Publication: lp.publication(),
		}
	})
}

func loadEntries[M any](ctx context.Context, f *Fetcher, indexURL string, logger *zap.Logger, convert func(legacyPost) M) ([]M, int, error) {
	raw, err := f.Fetch(ctx, indexURL)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch index: %w", err)
	}
	var idx index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, 0, fmt.Errorf("decode index: %w", err)
	}

	var out []M
	failed := 0
	for _, entryURL := range idx.Entries {
		raw, err := f.Fetch(ctx, entryURL)
		if err != nil {
			failed++
			logger.Warn("legacy entry dropped", zap.String("url", entryURL), zap.Error(err))
			continue
		}
		var lp legacyPost
		if err := json.Unmarshal(raw, &lp); err != nil {
			failed++
			logger.Warn("legacy entry undecodable", zap.String("url", entryURL), zap.Error(err))
			continue
		}
		out = append(out, convert(lp))
	}
	return out, failed, nil
}
