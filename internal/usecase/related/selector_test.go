package related

import (
	"testing"

	"github.com/kailas-cloud/supportqa/internal/domain/adjacency"
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	"github.com/kailas-cloud/supportqa/internal/domain/searchctx"
)

func TestSelectRelated_DefaultContext(t *testing.T) {
	adj := adjacency.Default()
	candidates := []domknow.Record{
		rec(t, "1", "インターネットで予約できますか？", "予約方法", "インターネット予約"),
		rec(t, "2", "web予約だけですか？", "web予約限定"),
		rec(t, "3", "外車は駐車できますか？", "車種制限"),
	}

	got := SelectRelated(adj, "インターネットで予約できますか？", []string{"予約方法"},
		searchctx.Default, candidates, 3)

	if len(got) != 1 || got[0] != "web予約だけですか？" {
		t.Fatalf("got %v, want [web予約だけですか？]", got)
	}
}

func TestSelectRelated_DropsCurrentAndUntagged(t *testing.T) {
	adj := adjacency.Default()
	candidates := []domknow.Record{
		rec(t, "1", "キャンセルできますか？", "キャンセル"),
		rec(t, "2", "タグなし"),
		rec(t, "3", "キャンセル料は？", "キャンセル料"),
	}

	got := SelectRelated(adj, "キャンセルできますか？", []string{"キャンセル"},
		searchctx.Cancellation, candidates, 3)

	if len(got) != 1 || got[0] != "キャンセル料は？" {
		t.Fatalf("got %v", got)
	}
}

func TestSelectRelated_CurrentQuestionExactMatchOnly(t *testing.T) {
	adj := adjacency.Default()
	candidates := []domknow.Record{rec(t, "1", "キャンセルできますか？", "手続き")}

	got := SelectRelated(adj, "キャンセルできますか？", []string{"キャンセル"},
		searchctx.Cancellation, candidates, 3)
	if len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}

	got = SelectRelated(adj, "キャンセルできますか?", []string{"キャンセル"},
		searchctx.Cancellation, candidates, 3)
	if len(got) != 1 {
		t.Fatalf("different text must not be dropped, got %v", got)
	}
}

func TestSelectRelated_DedupeAndTruncate(t *testing.T) {
	adj := adjacency.Default()
	candidates := []domknow.Record{
		rec(t, "1", "q1", "手続き"),
		rec(t, "2", "q1", "料金"),
		rec(t, "3", "q2", "料金"),
		rec(t, "4", "q3", "キャンセル料"),
		rec(t, "5", "q4", "キャンセル"),
	}

	got := SelectRelated(adj, "current", []string{"キャンセル"}, searchctx.Cancellation, candidates, 2)
	if len(got) != 2 || got[0] != "q1" || got[1] != "q2" {
		t.Fatalf("got %v, want [q1 q2]", got)
	}

	all := SelectRelated(adj, "current", []string{"キャンセル"}, searchctx.Cancellation, candidates, 10)
	seen := map[string]bool{}
	for _, q := range all {
		if seen[q] {
			t.Fatalf("duplicate question %q in %v", q, all)
		}
		seen[q] = true
	}
	if len(all) != 4 {
		t.Errorf("expected 4 distinct questions, got %v", all)
	}
}

func TestSelectRelated_DefaultMax(t *testing.T) {
	adj := adjacency.Default()
	var candidates []domknow.Record
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		candidates = append(candidates, rec(t, id, "q"+id, "キャンセル"))
	}
	got := SelectRelated(adj, "current", []string{"キャンセル"}, searchctx.Cancellation, candidates, 0)
	if len(got) != DefaultMaxQuestions {
		t.Fatalf("expected %d questions, got %v", DefaultMaxQuestions, got)
	}
}

func TestSelectRelated_Empty(t *testing.T) {
	got := SelectRelated(adjacency.Default(), "q", []string{"キャンセル"}, searchctx.Cancellation, nil, 3)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSelectRelated_OtherContextsEqualTagsOnly(t *testing.T) {
	adj := adjacency.Default(adjacency.WithDefaultFallback())
	candidates := []domknow.Record{
		rec(t, "1", "q1", "インターネット予約"),
		rec(t, "2", "q2", "駐車場"),
	}
	got := SelectRelated(adj, "current", []string{"予約方法", "駐車場"}, searchctx.Other, candidates, 3)
	if len(got) != 1 || got[0] != "q2" {
		t.Fatalf("got %v, want [q2]", got)
	}
}
