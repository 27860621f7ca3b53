package knowledge

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/supportqa/internal/domain"
)

func validFields() Fields {
	return Fields{
		ID:       "fee-1",
		Question: " 料金はいくらですか ",
		Answer:   `1日1000円です。\n詳細は料金表を参照。`,
		Tags:     []string{" 料金 ", "", "Fee"},
	}
}

func TestNew_OK(t *testing.T) {
	r, err := New(validFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Question() != "料金はいくらですか" {
		t.Errorf("question = %q", r.Question())
	}
	if r.Answer() != "1日1000円です。\n詳細は料金表を参照。" {
		t.Errorf("answer not unescaped: %q", r.Answer())
	}
	tags := r.Tags()
	if len(tags) != 2 || tags[0] != "料金" || tags[1] != "fee" {
		t.Errorf("tags = %v", tags)
	}
	if r.ChunkType() != ChunkParent {
		t.Errorf("chunk type = %q, want parent", r.ChunkType())
	}
	if !strings.HasPrefix(r.Content(), "質問: 料金はいくらですか\n回答: ") {
		t.Errorf("content = %q", r.Content())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Fields)
	}{
		{"empty id", func(f *Fields) { f.ID = " " }},
		{"control char in id", func(f *Fields) { f.ID = "fee\t1" }},
		{"id too long", func(f *Fields) { f.ID = strings.Repeat("x", MaxIDLength+1) }},
		{"empty question", func(f *Fields) { f.Question = "" }},
		{"empty answer", func(f *Fields) { f.Answer = "  " }},
		{"answer too large", func(f *Fields) { f.Answer = strings.Repeat("a", MaxAnswerSize+1) }},
		{"bad chunk type", func(f *Fields) { f.ChunkType = "grandchild" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			_, err := New(f)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestNew_FreeFormIDs(t *testing.T) {
	for _, id := range []string{"1.1", "faq 1", "Q1/2", "質問1"} {
		f := validFields()
		f.ID = id
		r, err := New(f)
		if err != nil {
			t.Errorf("id %q: unexpected error: %v", id, err)
			continue
		}
		if r.ID() != id {
			t.Errorf("id = %q, want %q", r.ID(), id)
		}
	}
}

func TestRecord_TagsAreCopied(t *testing.T) {
	r, err := New(validFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tags := r.Tags()
	tags[0] = "changed"
	if r.Tags()[0] != "料金" {
		t.Error("Tags must return a copy")
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("料金, 深夜料金;;Extra ")
	want := []string{"料金", "深夜料金", "extra"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseChunkType(t *testing.T) {
	tests := []struct {
		in   string
		want ChunkType
		ok   bool
	}{
		{"", ChunkParent, true},
		{"Parent", ChunkParent, true},
		{" child ", ChunkChild, true},
		{"other", "", false},
	}
	for _, tt := range tests {
		got, err := ParseChunkType(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseChunkType(%q) = %q, %v", tt.in, got, err)
		}
	}
}
