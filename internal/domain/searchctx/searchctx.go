// Package searchctx classifies knowledge records into support contexts by their tags.
package searchctx

import (
	"fmt"
	"strings"
)

// Context is the support topic a record belongs to.
type Context string

// Support context constants.
const (
	// Default covers reservation methods.
	Default          Context = "default"
	InternationalNG  Context = "international_ng"
	VehiclesNG       Context = "vehicles_ng"
	ReservationRules Context = "reservation_rules"
	Cancellation     Context = "cancellation"
	FeeRules         Context = "fee_rules"
	// Other is the catch-all; it never takes part in adjacency lookups.
	Other Context = "other_contexts"
)

// All lists every context in declaration order.
var All = []Context{
	Default, InternationalNG, VehiclesNG, ReservationRules, Cancellation, FeeRules, Other,
}

// IsValid checks if the context is one of the supported values.
func (c Context) IsValid() bool {
	for _, v := range All {
		if c == v {
			return true
		}
	}
	return false
}

// Parse validates a raw context name.
func Parse(s string) (Context, error) {
	c := Context(strings.TrimSpace(s))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown search context %q", s)
	}
	return c, nil
}

type rule struct {
	context  Context
	keywords []string
}

// rules are evaluated in order; the first match wins when keywords co-occur.
var rules = []rule{
	{Cancellation, []string{"キャンセル"}},
	{FeeRules, []string{"深夜料金", "追加料金", "料金詳細"}},
	{Default, []string{"予約方法"}},
	{InternationalNG, []string{"国際線"}},
	{VehiclesNG, []string{"車種制限"}},
	{ReservationRules, []string{"予約変更"}},
}

// Classify maps a tag set to a support context by keyword containment.
// Tags are joined into one lowercase string, so a keyword may match inside a longer tag.
func Classify(tags []string) Context {
	if len(tags) == 0 {
		return Other
	}
	joined := strings.ToLower(strings.Join(tags, ","))
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(joined, kw) {
				return r.context
			}
		}
	}
	return Other
}
