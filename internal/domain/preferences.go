package domain

import (
	"encoding/json/v2"

	"github.com/danielgtaylor/huma/v2"
)

// StringList is a []string that tolerates malformed JSON: anything other
// than an array of strings unmarshals as nil. Scoring treats a nil list as
// "no preference set", so dropping a bad value beats rejecting the request.
type StringList []string

// UnmarshalJSON keeps well-formed string arrays and degrades everything
// else to nil.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		*l = nil
		return nil
	}
	*l = values
	return nil
}

// Schema loosens the generated request schema so malformed values reach
// UnmarshalJSON instead of failing body validation first.
func (StringList) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{
		Description: "List of strings; any other value is treated as an empty list.",
	}
}

// Preferences is one member's ranked and filtered shift criteria.
// It is immutable for the duration of a scoring call.
type Preferences struct {
	Days               StringList `json:"days,omitempty" doc:"Preferred weekday names"`
	Times              StringList `json:"times,omitempty" doc:"Preferred time-of-day buckets"`
	Committees         StringList `json:"committees,omitempty" doc:"Committees ordered by rank, index 0 most preferred"`
	ExcludedCommittees StringList `json:"excludedCommittees,omitempty" doc:"Committees to drop entirely"`
}
