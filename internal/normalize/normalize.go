// Package normalize regroups the flat export back into per-submission field
// maps. The export is long-format — one row per answered field — so the
// whole row set must be materialized before grouping; submissions interleave
// arbitrarily in source order.
package normalize

import (
	"strings"

	"go.uber.org/zap"

	"github.com/formsource/orderload/internal/ingest"
	"github.com/formsource/orderload/internal/model"
)

// Normalize folds rows into one FieldMap per submission key.
//
// Submission keys, field titles and field values are all trimmed of
// surrounding whitespace before use (the trimming variant of the importer is
// the contract here; values are never passed through raw). Rows whose key is
// empty after trimming are dropped with a warning. Within a submission, a
// later row with the same title overwrites the earlier value.
//
// Submissions are returned in first-seen order of their key, which makes
// downstream identifier assignment deterministic.
func Normalize(rows []ingest.RawRow) []model.Submission {
	byKey := make(map[string]model.FieldMap)
	var order []string
	dropped := 0

	for _, row := range rows {
		key := strings.TrimSpace(row.SubmissionKey)
		if key == "" {
			dropped++
			zap.L().Warn("dropping row without submission key",
				zap.String("field_title", strings.TrimSpace(row.FieldTitle)),
			)
			continue
		}

		title := strings.TrimSpace(row.FieldTitle)
		if title == "" {
			continue
		}

		fields, ok := byKey[key]
		if !ok {
			fields = make(model.FieldMap)
			byKey[key] = fields
			order = append(order, key)
		}
		fields.Set(title, strings.TrimSpace(row.FieldValue))
	}

	subs := make([]model.Submission, 0, len(order))
	for _, key := range order {
		subs = append(subs, model.Submission{Key: key, Fields: byKey[key]})
	}

	if dropped > 0 {
		zap.L().Warn("rows dropped during grouping", zap.Int("count", dropped))
	}

	return subs
}
