package knowledge

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/supportqa/internal/domain"
)

// MaxIDLength is the maximum record ID length in bytes.
const MaxIDLength = 128

// MaxAnswerSize is the maximum answer size in bytes.
const MaxAnswerSize = 32768

// ChunkType is the record's role in the parent/child hierarchy.
type ChunkType string

const (
	// ChunkParent is a general entry.
	ChunkParent ChunkType = "parent"
	// ChunkChild is a detailed entry pointing at a parent.
	ChunkChild ChunkType = "child"
)

// ParseChunkType maps a raw value onto ChunkType. Empty means parent.
func ParseChunkType(s string) (ChunkType, error) {
	switch ChunkType(strings.ToLower(strings.TrimSpace(s))) {
	case "", ChunkParent:
		return ChunkParent, nil
	case ChunkChild:
		return ChunkChild, nil
	default:
		return "", fmt.Errorf("unknown chunk type %q: %w", s, domain.ErrValidation)
	}
}

// Record is a single Q&A entry (immutable value object).
type Record struct {
	id        string
	question  string
	answer    string
	parentID  string
	tags      []string
	priority  string
	purpose   string
	chunkType ChunkType
}

// Fields is the raw input for New.
type Fields struct {
	ID        string
	Question  string
	Answer    string
	ParentID  string
	Tags      []string
	Priority  string
	Purpose   string
	ChunkType string
}

// New validates and creates a Record.
// Question and answer must be non-empty; tags are normalized (trimmed, lowercased, empties dropped).
func New(f Fields) (Record, error) {
	id := strings.TrimSpace(f.ID)
	if id == "" {
		return Record{}, fmt.Errorf("record ID is required: %w", domain.ErrValidation)
	}
	if len(id) > MaxIDLength {
		return Record{}, fmt.Errorf("record ID too long (max %d bytes): %w", MaxIDLength, domain.ErrValidation)
	}
	if strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return Record{}, fmt.Errorf("record ID %q contains control characters: %w", id, domain.ErrValidation)
	}

	question := strings.TrimSpace(f.Question)
	if question == "" {
		return Record{}, fmt.Errorf("record %s: question is required: %w", id, domain.ErrValidation)
	}
	answer := strings.TrimSpace(f.Answer)
	if answer == "" {
		return Record{}, fmt.Errorf("record %s: answer is required: %w", id, domain.ErrValidation)
	}
	if len(answer) > MaxAnswerSize {
		return Record{}, fmt.Errorf("record %s: answer too large (max %d bytes): %w",
			id, MaxAnswerSize, domain.ErrValidation)
	}

	ct, err := ParseChunkType(f.ChunkType)
	if err != nil {
		return Record{}, fmt.Errorf("record %s: %w", id, err)
	}

	return Record{
		id:        id,
		question:  question,
		answer:    UnescapeAnswer(answer),
		parentID:  strings.TrimSpace(f.ParentID),
		tags:      NormalizeTags(f.Tags),
		priority:  strings.TrimSpace(f.Priority),
		purpose:   strings.TrimSpace(f.Purpose),
		chunkType: ct,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(
	id, question, answer, parentID string, tags []string,
	priority, purpose string, chunkType ChunkType,
) Record {
	return Record{
		id:        id,
		question:  question,
		answer:    answer,
		parentID:  parentID,
		tags:      cloneTags(tags),
		priority:  priority,
		purpose:   purpose,
		chunkType: chunkType,
	}
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// Question returns the question text.
func (r *Record) Question() string { return r.question }

// Answer returns the unescaped answer text.
func (r *Record) Answer() string { return r.answer }

// ParentID returns the parent record ID, empty for top-level records.
func (r *Record) ParentID() string { return r.parentID }

// Tags returns a copy of the record tags in source order.
func (r *Record) Tags() []string { return cloneTags(r.tags) }

// HasTags reports whether the record carries at least one tag.
func (r *Record) HasTags() bool { return len(r.tags) > 0 }

// Priority returns the opaque priority label.
func (r *Record) Priority() string { return r.priority }

// Purpose returns the opaque purpose label.
func (r *Record) Purpose() string { return r.purpose }

// ChunkType returns the hierarchy role.
func (r *Record) ChunkType() ChunkType { return r.chunkType }

// Content returns the text that gets embedded for similarity search.
func (r *Record) Content() string {
	return "質問: " + r.question + "\n回答: " + r.answer
}

// UnescapeAnswer replaces literal "\n" sequences with newlines.
func UnescapeAnswer(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// NormalizeTags trims and lowercases tags, dropping empty ones. Duplicates are kept.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitTags splits a raw tag field on commas and semicolons and normalizes the result.
func SplitTags(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	return NormalizeTags(parts)
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
