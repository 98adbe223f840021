package insight

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// lineRe matches one rendered utterance: Speaker {code} | [{start}-{end}] {text}
var lineRe = regexp.MustCompile(`^Speaker (.+?) \| \[([0-9.]+)-([0-9.]+)\] (.*)$`)

// SpeakerKey is the display key of a speaker that has not been relabeled
func SpeakerKey(code string) string {
	return "Speaker " + code
}

// Render produces the canonical transcript view, one utterance per line in
// the given order. Times are seconds in their shortest decimal form.
func Render(utterances entities.Utterances) string {
	var sb strings.Builder
	for i, u := range utterances {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(SpeakerKey(u.Speaker))
		sb.WriteString(" | [")
		sb.WriteString(seconds(u.Start))
		sb.WriteByte('-')
		sb.WriteString(seconds(u.End))
		sb.WriteString("] ")
		sb.WriteString(strings.ReplaceAll(u.Text, "\n", " "))
	}
	return sb.String()
}

func seconds(ms int64) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', -1, 64)
}

// SpeakerText is one speaker's concatenated contribution
type SpeakerText struct {
	Code string
	Text string
}

// Partition splits a rendered block back into per-speaker text, in order of
// first appearance. Lines that do not match the rendered format are skipped.
func Partition(rendered string) []SpeakerText {
	index := make(map[string]int)
	var out []SpeakerText
	for _, line := range strings.Split(rendered, "\n") {
		m := lineRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		code, text := m[1], m[4]
		i, ok := index[code]
		if !ok {
			index[code] = len(out)
			out = append(out, SpeakerText{Code: code, Text: text})
			continue
		}
		out[i].Text += "\n" + text
	}
	return out
}
