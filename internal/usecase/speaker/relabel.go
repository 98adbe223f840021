package speaker

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
)

const tokenPrefix = "Speaker "

// ValidateMap checks a code->name mapping against the transcript and returns
// it with trimmed names.
func ValidateMap(t *entities.Transcript, raw map[string]string) (entities.SpeakerMap, error) {
	if t.SpeakersUpdated {
		return nil, usecaseErrors.ErrAlreadyRelabeled
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: speaker_map is empty", usecaseErrors.ErrInvalidSpeakerMap)
	}

	observed := make(map[string]struct{})
	for _, code := range t.Utterances.Speakers() {
		observed[code] = struct{}{}
	}

	cleaned := make(entities.SpeakerMap, len(raw))
	usedBy := make(map[string]string, len(raw))
	for _, code := range sortedKeys(raw) {
		name := strings.TrimSpace(raw[code])
		if _, ok := observed[code]; !ok {
			return nil, fmt.Errorf("%w: unknown speaker code %q", usecaseErrors.ErrInvalidSpeakerMap, code)
		}
		if name == "" {
			return nil, fmt.Errorf("%w: empty name for speaker %q", usecaseErrors.ErrInvalidSpeakerMap, code)
		}
		if other, dup := usedBy[name]; dup {
			return nil, fmt.Errorf("%w: name %q given to both %q and %q", usecaseErrors.ErrInvalidSpeakerMap, name, other, code)
		}
		if _, clash := observed[name]; clash {
			return nil, fmt.Errorf("%w: name %q is also a speaker code", usecaseErrors.ErrInvalidSpeakerMap, name)
		}
		if strings.HasPrefix(name, tokenPrefix) {
			if _, clash := observed[strings.TrimPrefix(name, tokenPrefix)]; clash {
				return nil, fmt.Errorf("%w: name %q collides with a speaker label", usecaseErrors.ErrInvalidSpeakerMap, name)
			}
		}
		usedBy[name] = code
		cleaned[code] = name
	}
	return cleaned, nil
}

// Relabel applies the mapping to the utterances, the full transcript, the
// structured summary and the per-speaker summaries. It returns a new
// transcript and leaves t untouched.
func Relabel(t *entities.Transcript, raw map[string]string) (*entities.Transcript, error) {
	speakerMap, err := ValidateMap(t, raw)
	if err != nil {
		return nil, err
	}
	r := newReplacer(speakerMap)

	out := *t
	out.Utterances = make(entities.Utterances, len(t.Utterances))
	for i, u := range t.Utterances {
		if name, ok := speakerMap[u.Speaker]; ok {
			u.Speaker = name
		}
		out.Utterances[i] = u
	}

	out.FullTranscript = r.replace(t.FullTranscript)

	insights := t.MeetingInsights()
	relabeled := entities.Insights{
		StructuredSummary: r.replace(insights.StructuredSummary),
		SpeakerSummaries:  make(map[string]string, len(insights.SpeakerSummaries)),
	}
	for key, text := range insights.SpeakerSummaries {
		code, isLabel := strings.CutPrefix(key, tokenPrefix)
		name, mapped := speakerMap[code]
		if !isLabel || !mapped {
			relabeled.SpeakerSummaries[key] = text
			continue
		}
		relabeled.SpeakerSummaries[name] = r.replace(text)
	}
	out.SetInsights(relabeled)

	out.SpeakersUpdated = true
	out.SpeakerMap = speakerMap
	return &out, nil
}

// replacer substitutes whole "Speaker {code}" tokens in a single left to
// right pass, so inserted names are never rescanned.
type replacer struct {
	names map[string]string
	codes []string
}

func newReplacer(speakerMap entities.SpeakerMap) *replacer {
	codes := make([]string, 0, len(speakerMap))
	for code := range speakerMap {
		codes = append(codes, code)
	}
	// longest first so "AB" wins over "A"
	sort.Slice(codes, func(i, j int) bool {
		if len(codes[i]) != len(codes[j]) {
			return len(codes[i]) > len(codes[j])
		}
		return codes[i] < codes[j]
	})
	return &replacer{names: speakerMap, codes: codes}
}

func (r *replacer) replace(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	pos := 0
	for {
		idx := strings.Index(text[pos:], tokenPrefix)
		if idx < 0 {
			sb.WriteString(text[pos:])
			return sb.String()
		}
		start := pos + idx
		afterPrefix := start + len(tokenPrefix)

		code, ok := r.matchAt(text, start, afterPrefix)
		if !ok {
			sb.WriteString(text[pos:afterPrefix])
			pos = afterPrefix
			continue
		}
		sb.WriteString(text[pos:start])
		sb.WriteString(r.names[code])
		pos = afterPrefix + len(code)
	}
}

func (r *replacer) matchAt(text string, start, afterPrefix int) (string, bool) {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(before) {
			return "", false
		}
	}
	rest := text[afterPrefix:]
	for _, code := range r.codes {
		if !strings.HasPrefix(rest, code) {
			continue
		}
		if len(rest) > len(code) {
			after, _ := utf8.DecodeRuneInString(rest[len(code):])
			if isWordRune(after) {
				continue
			}
		}
		return code, true
	}
	return "", false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
