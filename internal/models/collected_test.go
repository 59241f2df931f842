package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intPtr(n int64) *int64               { return &n }
func strPtr(s string) *string             { return &s }
func urgPtr(u UrgencyLevel) *UrgencyLevel { return &u }

func TestDecodeCollectedData(t *testing.T) {
	data, err := DecodeCollectedData(`{
		"order_number": 42,
		"problem_category": "billing",
		"problem_description": "charged twice",
		"urgency_level": "high"
	}`)
	require.NoError(t, err)
	require.Equal(t, CollectedData{
		OrderNumber:        intPtr(42),
		ProblemCategory:    strPtr("billing"),
		ProblemDescription: strPtr("charged twice"),
		UrgencyLevel:       urgPtr(UrgencyHigh),
	}, data)
}

func TestDecodeCollectedDataAllNull(t *testing.T) {
	data, err := DecodeCollectedData(`{"order_number":null,"problem_category":null,"problem_description":null,"urgency_level":null}`)
	require.NoError(t, err)
	require.True(t, data.IsEmpty())
}

func TestDecodeCollectedDataUrgencyLowercased(t *testing.T) {
	data, err := DecodeCollectedData(`{"order_number":null,"problem_category":null,"problem_description":null,"urgency_level":"HIGH"}`)
	require.NoError(t, err)
	require.Equal(t, urgPtr(UrgencyHigh), data.UrgencyLevel)
}

func TestDecodeCollectedDataRejectsInvalidShapes(t *testing.T) {
	cases := map[string]string{
		"not json":           `not json at all`,
		"not an object":      `[1, 2, 3]`,
		"missing key":        `{"order_number":1,"problem_category":null,"problem_description":null}`,
		"unknown key":        `{"order_number":null,"problem_category":null,"problem_description":null,"urgency_level":null,"extra":1}`,
		"wrong type":         `{"order_number":"abc","problem_category":null,"problem_description":null,"urgency_level":null}`,
		"float order number": `{"order_number":42.5,"problem_category":null,"problem_description":null,"urgency_level":null}`,
		"unknown urgency":    `{"order_number":null,"problem_category":null,"problem_description":null,"urgency_level":"critical"}`,
		"category too short": `{"order_number":null,"problem_category":"ab","problem_description":null,"urgency_level":null}`,
		"description short":  `{"order_number":null,"problem_category":null,"problem_description":"hey","urgency_level":null}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCollectedData(raw)
			require.Error(t, err)
		})
	}
}

func TestMergeTakesNewPresentValues(t *testing.T) {
	old := CollectedData{OrderNumber: intPtr(1), ProblemCategory: strPtr("billing")}
	incoming := CollectedData{OrderNumber: intPtr(2), UrgencyLevel: urgPtr(UrgencyLow)}

	merged := old.Merge(incoming)
	require.Equal(t, intPtr(2), merged.OrderNumber)
	require.Equal(t, strPtr("billing"), merged.ProblemCategory)
	require.Equal(t, urgPtr(UrgencyLow), merged.UrgencyLevel)
	require.Nil(t, merged.ProblemDescription)
}

func TestMergeNeverClearsFields(t *testing.T) {
	old := CollectedData{
		OrderNumber:        intPtr(7),
		ProblemCategory:    strPtr("shipping"),
		ProblemDescription: strPtr("package never arrived"),
		UrgencyLevel:       urgPtr(UrgencyMedium),
	}

	merged := old.Merge(CollectedData{})
	require.Equal(t, old, merged)
}

func TestMergeIsIdempotent(t *testing.T) {
	a := CollectedData{OrderNumber: intPtr(1)}
	b := CollectedData{ProblemCategory: strPtr("billing"), UrgencyLevel: urgPtr(UrgencyHigh)}

	once := a.Merge(b)
	twice := once.Merge(b)
	require.Equal(t, once, twice)
}

func TestMergeEmptyBase(t *testing.T) {
	incoming := CollectedData{OrderNumber: intPtr(9)}
	merged := CollectedData{}.Merge(incoming)
	require.Equal(t, incoming, merged)
}

func TestIsEmpty(t *testing.T) {
	require.True(t, CollectedData{}.IsEmpty())
	require.False(t, CollectedData{OrderNumber: intPtr(1)}.IsEmpty())
}
