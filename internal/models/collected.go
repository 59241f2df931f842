package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// UrgencyLevel classifies how pressing the customer's issue is.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

// UnmarshalJSON lowercases the value before validating it, so "HIGH" and
// "High" decode to UrgencyHigh.
func (u *UrgencyLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	level := UrgencyLevel(strings.ToLower(s))
	switch level {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		*u = level
		return nil
	}
	return fmt.Errorf("invalid urgency_level: %q", s)
}

// CollectedData is the structured record extracted from assistant replies.
// The zero value (all fields nil) is the canonical empty record and the
// merge base for a new conversation.
type CollectedData struct {
	OrderNumber        *int64        `json:"order_number"`
	ProblemCategory    *string       `json:"problem_category"`
	ProblemDescription *string       `json:"problem_description"`
	UrgencyLevel       *UrgencyLevel `json:"urgency_level"`
}

// collectedDataKeys is the fixed wire shape of a <COLLECTED_DATA> block.
// All four keys must be present (null is fine), and no others.
var collectedDataKeys = []string{
	"order_number",
	"problem_category",
	"problem_description",
	"urgency_level",
}

// DecodeCollectedData strictly decodes the inner content of a data block.
// Missing keys, unknown keys, wrong types and out-of-range values are all
// decode errors; callers fall back to the empty record on failure.
func DecodeCollectedData(raw string) (CollectedData, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return CollectedData{}, err
	}

	for _, key := range collectedDataKeys {
		if _, ok := fields[key]; !ok {
			return CollectedData{}, fmt.Errorf("missing key %q", key)
		}
	}
	if len(fields) != len(collectedDataKeys) {
		for key := range fields {
			known := false
			for _, k := range collectedDataKeys {
				if key == k {
					known = true
					break
				}
			}
			if !known {
				return CollectedData{}, fmt.Errorf("unknown key %q", key)
			}
		}
	}

	var data CollectedData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return CollectedData{}, err
	}
	if err := data.Validate(); err != nil {
		return CollectedData{}, err
	}
	return data, nil
}

// Validate checks range constraints on the present fields. Nil fields are
// always valid; an all-nil record is the canonical empty value.
func (d CollectedData) Validate() error {
	if d.ProblemCategory != nil {
		if n := utf8.RuneCountInString(*d.ProblemCategory); n < 3 || n > 50 {
			return fmt.Errorf("problem_category must be 3-50 characters, got %d", n)
		}
	}
	if d.ProblemDescription != nil {
		if n := utf8.RuneCountInString(*d.ProblemDescription); n < 5 || n > 500 {
			return fmt.Errorf("problem_description must be 5-500 characters, got %d", n)
		}
	}
	return nil
}

// IsEmpty reports whether no field has been collected yet.
func (d CollectedData) IsEmpty() bool {
	return d.OrderNumber == nil &&
		d.ProblemCategory == nil &&
		d.ProblemDescription == nil &&
		d.UrgencyLevel == nil
}

// Merge folds an incoming record into this one, field by field. A present
// incoming field always overwrites; a nil incoming field never clears.
func (d CollectedData) Merge(incoming CollectedData) CollectedData {
	merged := d
	if incoming.OrderNumber != nil {
		merged.OrderNumber = incoming.OrderNumber
	}
	if incoming.ProblemCategory != nil {
		merged.ProblemCategory = incoming.ProblemCategory
	}
	if incoming.ProblemDescription != nil {
		merged.ProblemDescription = incoming.ProblemDescription
	}
	if incoming.UrgencyLevel != nil {
		merged.UrgencyLevel = incoming.UrgencyLevel
	}
	return merged
}
