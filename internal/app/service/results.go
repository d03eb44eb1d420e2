package service

import (
	"judge_web/internal/domain/model"
	"slices"

	"github.com/samber/lo"
)

// SortByRecency orders submissions newest first. Equal timestamps keep
// their relative order.
func SortByRecency(subs []model.Submission) {
	slices.SortStableFunc(subs, func(a, b model.Submission) int {
		return b.CreatedAt.Compare(a.CreatedAt.Time)
	})
}

// Upsert returns history with snapshot replacing any row carrying the same
// id, sorted newest first. history is not modified.
func Upsert(history []model.Submission, snapshot model.Submission) []model.Submission {
	rest := lo.Reject(history, func(s model.Submission, _ int) bool {
		return s.ID == snapshot.ID
	})
	out := make([]model.Submission, 0, len(rest)+1)
	out = append(out, snapshot)
	out = append(out, rest...)
	SortByRecency(out)
	return out
}
