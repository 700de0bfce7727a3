package rag

import "strings"

// SummarySentinel separates the user-visible answer from the trailing
// summary section in a model response.
const SummarySentinel = "---summary"

// SentinelFilter consumes a streamed model response and forwards only the
// answer portion to emit. Once the sentinel is observed, the remainder of
// the stream is silently collected as the summary. Because the sentinel
// can arrive split across deltas, text that could still turn out to be a
// sentinel prefix is withheld until resolved.
type SentinelFilter struct {
	emit      func(text string) error
	carry     string
	answer    strings.Builder
	summary   strings.Builder
	inSummary bool
	started   bool
}

func NewSentinelFilter(emit func(text string) error) *SentinelFilter {
	if emit == nil {
		emit = func(string) error { return nil }
	}
	return &SentinelFilter{emit: emit}
}

// Write feeds one stream delta through the filter.
func (f *SentinelFilter) Write(delta string) error {
	if f.inSummary {
		f.summary.WriteString(delta)
		return nil
	}

	pending := f.carry + delta
	if pos := strings.Index(pending, SummarySentinel); pos >= 0 {
		f.inSummary = true
		f.carry = ""
		if err := f.forward(pending[:pos]); err != nil {
			return err
		}
		f.summary.WriteString(pending[pos+len(SummarySentinel):])
		return nil
	}

	// Keep the longest tail that is still a sentinel prefix.
	keep := 0
	for n := min(len(SummarySentinel)-1, len(pending)); n > 0; n-- {
		if strings.HasSuffix(pending, SummarySentinel[:n]) {
			keep = n
			break
		}
	}
	f.carry = pending[len(pending)-keep:]
	return f.forward(pending[:len(pending)-keep])
}

// Close flushes withheld text that never completed into a sentinel.
func (f *SentinelFilter) Close() error {
	if f.inSummary || f.carry == "" {
		return nil
	}
	pending := f.carry
	f.carry = ""
	return f.forward(pending)
}

// Answer returns the visible answer text forwarded so far.
func (f *SentinelFilter) Answer() string {
	return f.answer.String()
}

// Summary returns the collected summary section, trimmed.
func (f *SentinelFilter) Summary() string {
	return strings.TrimSpace(f.summary.String())
}

func (f *SentinelFilter) forward(text string) error {
	if !f.started {
		text = strings.TrimLeft(text, " \t\r\n")
		if text == "" {
			return nil
		}
		f.started = true
	}
	f.answer.WriteString(text)
	return f.emit(text)
}
