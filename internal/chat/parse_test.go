package chat

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bilaluali/support-gpt/internal/models"
)

func intPtr(n int64) *int64                             { return &n }
func strPtr(s string) *string                           { return &s }
func urgPtr(u models.UrgencyLevel) *models.UrgencyLevel { return &u }

func TestParseResponseWithBlock(t *testing.T) {
	content := `Got it.<COLLECTED_DATA>{"order_number":42,"problem_category":"billing","problem_description":"charged twice","urgency_level":"HIGH"}</COLLECTED_DATA>`

	parsed := ParseResponse(zerolog.Nop(), content)
	require.Equal(t, "Got it.", parsed.Reply)
	require.Equal(t, models.CollectedData{
		OrderNumber:        intPtr(42),
		ProblemCategory:    strPtr("billing"),
		ProblemDescription: strPtr("charged twice"),
		UrgencyLevel:       urgPtr(models.UrgencyHigh),
	}, parsed.CollectedData)
}

func TestParseResponseNoBlock(t *testing.T) {
	parsed := ParseResponse(zerolog.Nop(), "  Hi there  ")
	require.Equal(t, "Hi there", parsed.Reply)
	require.True(t, parsed.CollectedData.IsEmpty())
}

func TestParseResponseMalformedBlock(t *testing.T) {
	parsed := ParseResponse(zerolog.Nop(), "All good, how can I help you today? <COLLECTED_DATA>invalid json</COLLECTED_DATA>")
	require.Equal(t, "All good, how can I help you today?", parsed.Reply)
	require.True(t, parsed.CollectedData.IsEmpty())
}

func TestParseResponseMultilineBlock(t *testing.T) {
	content := "Thanks!\n<COLLECTED_DATA>{\n  \"order_number\": 7,\n  \"problem_category\": null,\n  \"problem_description\": null,\n  \"urgency_level\": null\n}</COLLECTED_DATA>\n"

	parsed := ParseResponse(zerolog.Nop(), content)
	require.Equal(t, "Thanks!", parsed.Reply)
	require.Equal(t, intPtr(7), parsed.CollectedData.OrderNumber)
}

func TestParseResponseFirstBlockWins(t *testing.T) {
	content := `Reply.` +
		`<COLLECTED_DATA>{"order_number":1,"problem_category":null,"problem_description":null,"urgency_level":null}</COLLECTED_DATA>` +
		`<COLLECTED_DATA>{"order_number":2,"problem_category":null,"problem_description":null,"urgency_level":null}</COLLECTED_DATA>`

	parsed := ParseResponse(zerolog.Nop(), content)
	require.Equal(t, intPtr(1), parsed.CollectedData.OrderNumber)
	// The second block is not the delimited region, it stays in the reply text.
	require.Contains(t, parsed.Reply, `"order_number":2`)
}

func TestParseResponseBlockOnly(t *testing.T) {
	content := `<COLLECTED_DATA>{"order_number":null,"problem_category":null,"problem_description":null,"urgency_level":null}</COLLECTED_DATA>`

	parsed := ParseResponse(zerolog.Nop(), content)
	require.Equal(t, "", parsed.Reply)
	require.True(t, parsed.CollectedData.IsEmpty())
}

func TestParseResponseMissingKeysInBlock(t *testing.T) {
	parsed := ParseResponse(zerolog.Nop(), `Here.<COLLECTED_DATA>{"order_number":42}</COLLECTED_DATA>`)
	require.Equal(t, "Here.", parsed.Reply)
	require.True(t, parsed.CollectedData.IsEmpty())
}
