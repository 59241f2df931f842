package chat

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bilaluali/support-gpt/internal/metrics"
	"github.com/bilaluali/support-gpt/internal/models"
)

// collectedDataRe matches the first <COLLECTED_DATA> block in a completion.
// Non-greedy so a second block is left in place, and (?s) so the JSON may
// span multiple lines.
var collectedDataRe = regexp.MustCompile(`(?s)<COLLECTED_DATA>(.*?)</COLLECTED_DATA>`)

// ParsedReply is the decomposition of one raw LLM completion into the text
// shown to the user and the structured record embedded in it.
type ParsedReply struct {
	Reply         string
	CollectedData models.CollectedData
}

// ParseResponse splits a raw completion into reply text and collected data.
//
// A missing block and a malformed block are both recoverable: the reply text
// is still extracted, the record defaults to empty, and the condition is
// logged. ParseResponse never fails the turn.
func ParseResponse(logger zerolog.Logger, content string) ParsedReply {
	match := collectedDataRe.FindStringSubmatch(content)
	if match == nil {
		logger.Warn().Msg("no <COLLECTED_DATA> block found in response")
		metrics.ParseFailuresTotal.WithLabelValues("missing_block").Inc()
		return ParsedReply{Reply: strings.TrimSpace(content)}
	}

	block, inner := match[0], strings.TrimSpace(match[1])
	reply := strings.TrimSpace(strings.Replace(content, block, "", 1))

	data, err := models.DecodeCollectedData(inner)
	if err != nil {
		logger.Error().
			Err(err).
			Str("block", inner).
			Msg("invalid JSON in <COLLECTED_DATA>")
		metrics.ParseFailuresTotal.WithLabelValues("invalid_data").Inc()
		return ParsedReply{Reply: reply}
	}

	return ParsedReply{Reply: reply, CollectedData: data}
}
