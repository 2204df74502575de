package onboarding

import (
	"regexp"
	"strings"
)

// Phase is the machine-readable step marker the assistant model is
// instructed to append to its replies. Markers decouple control flow
// from the model's visible prose; phrase scanning below is only a
// fallback for replies that omit the marker.
type Phase string

const (
	PhaseNone          Phase = ""
	PhaseCollectIncome Phase = "collect_income"
	PhaseFaceCheck     Phase = "face_check"
	PhaseCollectEmail  Phase = "collect_email"
)

var phaseMarkerRegex = regexp.MustCompile(`\s*<<phase:([a-z_]+)>>\s*`)

// extractPhase strips the marker from the reply and returns the
// visible text plus the declared phase, if any.
func extractPhase(reply string) (string, Phase) {
	match := phaseMarkerRegex.FindStringSubmatch(reply)
	if match == nil {
		return reply, PhaseNone
	}
	visible := strings.TrimSpace(phaseMarkerRegex.ReplaceAllString(reply, " "))
	switch Phase(match[1]) {
	case PhaseCollectIncome, PhaseFaceCheck, PhaseCollectEmail:
		return visible, Phase(match[1])
	default:
		return visible, PhaseNone
	}
}

// markerStreamFilter strips phase markers from streamed reply deltas.
// Text that could still grow into a marker is withheld until a later
// delta completes or disproves it, so control bytes never reach the
// client mid-stream.
type markerStreamFilter struct {
	emit    func(delta string) error
	pending string
}

func newMarkerStreamFilter(emit func(delta string) error) *markerStreamFilter {
	return &markerStreamFilter{emit: emit}
}

func (f *markerStreamFilter) push(delta string) error {
	f.pending += delta
	f.pending = phaseMarkerRegex.ReplaceAllString(f.pending, " ")

	hold := len(f.pending)
	for i := 0; i < len(f.pending); i++ {
		if f.pending[i] == '<' && couldBeMarkerPrefix(f.pending[i:]) {
			hold = i
			break
		}
	}
	out := f.pending[:hold]
	f.pending = f.pending[hold:]
	if out == "" {
		return nil
	}
	return f.emit(out)
}

// flush releases a withheld tail that never became a marker, such as a
// literal "<" near the end of the reply.
func (f *markerStreamFilter) flush() error {
	if f.pending == "" {
		return nil
	}
	out := f.pending
	f.pending = ""
	return f.emit(out)
}

// couldBeMarkerPrefix reports whether s is a proper prefix of some
// "<<phase:name>>" marker.
func couldBeMarkerPrefix(s string) bool {
	const head = "<<phase:"
	if len(s) < len(head) {
		return strings.HasPrefix(head, s)
	}
	if !strings.HasPrefix(s, head) {
		return false
	}
	rest := s[len(head):]
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if (c >= 'a' && c <= 'z') || c == '_' {
			continue
		}
		// A single trailing '>' is still waiting for its pair.
		return c == '>' && i == len(rest)-1
	}
	return true
}

// Static trigger-phrase tables, used only when the model omitted its
// phase marker.
var (
	incomeTriggerPhrases = []string{
		"monthly income",
		"income in inr",
		"how much do you earn",
		"share your income",
		"your take-home",
	}
	faceTriggerPhrases = []string{
		"face verification",
		"verify your face",
		"quick selfie",
		"open the camera",
		"liveness check",
	}
)

func matchesAny(text string, phrases []string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// detectEmployment scans free text for employment hints. The first
// detection wins; later mentions never overwrite it.
func detectEmployment(text string) string {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "freelan"):
		return "freelancer"
	case strings.Contains(lowered, "salar"):
		return "salaried"
	case strings.Contains(lowered, "business"), strings.Contains(lowered, "owner"):
		return "business"
	case strings.Contains(lowered, "student"):
		return "student"
	}
	return ""
}
