package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
)

type ImportMode string

const (
	// ImportModeSkip leaves already-imported items untouched, which makes
	// repeated runs of the same batch cheap and safe.
	ImportModeSkip ImportMode = "skip"
	// ImportModeRefresh overwrites mutable fields of already-imported
	// items and replaces their child rows exactly.
	ImportModeRefresh ImportMode = "refresh"
)

var ErrBadImportMode = errors.New(`import mode must be "skip" or "refresh"`)

type ImportSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// ImportBatch is the bulk-write path used by legacy migration scripts.
// Records are keyed by LegacyKey for duplicate detection; items created
// here go straight to PUBLISHED with their original (back-dated)
// publication timestamp. Each record runs in its own transaction, so one
// failing record never aborts the rest of the batch.
func (r *Repository[T, PT]) ImportBatch(ctx context.Context, records []PT, mode ImportMode) (ImportSummary, error) {
	if mode != ImportModeSkip && mode != ImportModeRefresh {
		return ImportSummary{}, ErrBadImportMode
	}

	var sum ImportSummary
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		key := rec.Pub().LegacyKey
		if key == nil || *key == "" {
			sum.Failed++
			r.logger.Warn("import record without legacy key rejected")
			continue
		}
		if seen[*key] && mode == ImportModeSkip {
			// Two distinct incoming records claiming one legacy key is an
			// invariant violation on the source side; counted, not fatal.
			sum.Skipped++
			r.logger.Warn("duplicate legacy key within batch", zap.String("legacy_key", *key))
			continue
		}
		seen[*key] = true

		outcome, err := r.upsertRecord(ctx, rec, mode)
		if err != nil {
			sum.Failed++
			r.logger.Error("import record failed",
				zap.String("legacy_key", *key),
				zap.Error(err))
			continue
		}
		switch outcome {
		case importInserted:
			sum.Inserted++
		case importUpdated:
			sum.Updated++
		case importSkipped:
			sum.Skipped++
		}
	}

	r.metrics.ObserveSize("import_batch_records", float64(len(records)))
	r.metrics.IncrementCounter("import_batches", map[string]string{"family": r.cfg.Family})
	r.logger.Info("import batch finished",
		zap.String("mode", string(mode)),
		zap.Int("inserted", sum.Inserted),
		zap.Int("updated", sum.Updated),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed))
	return sum, nil
}

type importOutcome int

const (
	importInserted importOutcome = iota
	importUpdated
	importSkipped
)

func (r *Repository[T, PT]) upsertRecord(ctx context.Context, rec PT, mode ImportMode) (importOutcome, error) {
	var outcome importOutcome
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		res := tx.Where("legacy_key = ?", *rec.Pub().LegacyKey).First(&existing)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			outcome = importInserted
			return r.insertImported(tx, rec)
		}
		if res.Error != nil {
			return res.Error
		}

		if mode == ImportModeSkip {
			outcome = importSkipped
			return nil
		}

		outcome = importUpdated
		return r.refreshImported(tx, PT(&existing), rec)
	})
	return outcome, err
}

func (r *Repository[T, PT]) insertImported(tx *gorm.DB, rec PT) error {
	pub := rec.Pub()
	pub.Status = models.StatusPublished
	if pub.PublishedAt == nil {
		// Source rows without an original timestamp fall back to now.
		now := time.Now()
		pub.PublishedAt = &now
	}
	pub.Version = 1
	pub.CancellationReason = ""
	if rec.RecordID() == "" {
		rec.SetID(uuid.New().String())
	}
	return tx.Create(rec).Error
}

// refreshImported overwrites mutable fields but preserves id, creation
// time and legacy key; child rows are deleted and re-inserted so a
// shrinking attachment set cannot leave orphans behind.
func (r *Repository[T, PT]) refreshImported(tx *gorm.DB, existing, rec PT) error {
	r.hooks.CopyRefresh(existing, rec)
	existing.Pub().Version++

	if err := tx.Omit(clause.Associations).Save(existing).Error; err != nil {
		return err
	}
	if r.hooks.ReplaceChildren != nil {
		return r.hooks.ReplaceChildren(tx, existing)
	}
	return nil
}
