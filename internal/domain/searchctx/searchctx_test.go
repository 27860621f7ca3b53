package searchctx

import "testing"

func TestClassify_Rules(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want Context
	}{
		{"empty", nil, Other},
		{"empty slice", []string{}, Other},
		{"cancellation", []string{"キャンセル", "手続き"}, Cancellation},
		{"late night fee", []string{"深夜料金"}, FeeRules},
		{"surcharge", []string{"料金", "追加料金"}, FeeRules},
		{"fee detail", []string{"料金詳細"}, FeeRules},
		{"reservation method", []string{"予約方法", "インターネット予約"}, Default},
		{"international", []string{"国際線制限"}, InternationalNG},
		{"vehicles", []string{"車種制限", "輸入車不可"}, VehiclesNG},
		{"reservation change", []string{"予約変更"}, ReservationRules},
		{"unrelated", []string{"送迎", "駐車場"}, Other},
		{"plain fee is not fee_rules", []string{"料金"}, Other},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.tags); got != tc.want {
				t.Errorf("Classify(%v) = %q, want %q", tc.tags, got, tc.want)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	tests := []struct {
		tags []string
		want Context
	}{
		{[]string{"深夜料金", "キャンセル"}, Cancellation},
		{[]string{"予約方法", "追加料金"}, FeeRules},
		{[]string{"国際線", "予約方法"}, Default},
		{[]string{"車種制限", "国際線"}, InternationalNG},
		{[]string{"予約変更", "車種制限"}, VehiclesNG},
	}
	for _, tc := range tests {
		if got := Classify(tc.tags); got != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.tags, got, tc.want)
		}
	}
}

func TestClassify_FeeKeywordWithoutCancellation(t *testing.T) {
	feeTags := []string{"深夜料金", "追加料金", "料金詳細"}
	others := [][]string{
		nil,
		{"予約方法"},
		{"国際線"},
		{"車種制限", "予約変更"},
	}
	for _, fee := range feeTags {
		for _, extra := range others {
			tags := append([]string{fee}, extra...)
			if got := Classify(tags); got != FeeRules {
				t.Errorf("Classify(%v) = %q, want %q", tags, got, FeeRules)
			}
		}
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	if got := Classify([]string{"WEB予約限定", "予約方法"}); got != Default {
		t.Errorf("got %q, want %q", got, Default)
	}
}

func TestParse(t *testing.T) {
	for _, c := range All {
		got, err := Parse(string(c))
		if err != nil {
			t.Fatalf("Parse(%q): %v", c, err)
		}
		if got != c {
			t.Errorf("Parse(%q) = %q", c, got)
		}
	}
	if _, err := Parse("billing"); err == nil {
		t.Error("expected error for unknown context")
	}
}

func TestIsValid(t *testing.T) {
	invalid := []Context{"", "DEFAULT", "other"}
	for _, c := range invalid {
		if c.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", c)
		}
	}
}
