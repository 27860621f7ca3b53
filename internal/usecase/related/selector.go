package related

import (
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	"github.com/kailas-cloud/supportqa/internal/domain/searchctx"
)

// DefaultMaxQuestions is used when the caller passes a non-positive limit.
const DefaultMaxQuestions = 3

// SelectRelated picks follow-up questions from candidates, in candidate order.
// A candidate survives when its question differs from currentQuestion, it has tags,
// and at least one of its tags is related to one of currentTags in sctx.
// Questions are deduplicated and the result holds at most maxQuestions entries.
func SelectRelated(
	adj Adjacency, currentQuestion string, currentTags []string,
	sctx searchctx.Context, candidates []domknow.Record, maxQuestions int,
) []string {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}

	out := make([]string, 0, maxQuestions)
	seen := make(map[string]struct{}, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		q := c.Question()
		if q == currentQuestion || !c.HasTags() {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		if !anyRelated(adj, c.Tags(), currentTags, sctx) {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if len(out) == maxQuestions {
			break
		}
	}
	return out
}

func anyRelated(adj Adjacency, candidateTags, currentTags []string, sctx searchctx.Context) bool {
	for _, ct := range candidateTags {
		for _, cur := range currentTags {
			if adj.AreRelated(ct, cur, sctx) {
				return true
			}
		}
	}
	return false
}
