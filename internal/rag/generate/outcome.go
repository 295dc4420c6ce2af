package generate

// Outcome is the typed result of one model invocation. Distinguishing a
// parsed answer from an unparseable reply keeps recovery a typed branch in
// the caller instead of string-matching on error text.
type Outcome struct {
	// Answer holds the extracted answer text when Parsed is true.
	Answer string
	// Raw is the unprocessed model output, kept for salvage when parsing
	// fails: models often embed a usable answer inside a malformed reply.
	Raw string
	// Parsed reports whether Answer was successfully extracted.
	Parsed bool
}

// Answered builds a successfully parsed outcome.
func Answered(answer, raw string) Outcome {
	return Outcome{Answer: answer, Raw: raw, Parsed: true}
}

// Unparseable builds an outcome for a reply that failed structured parsing.
func Unparseable(raw string) Outcome {
	return Outcome{Raw: raw, Parsed: false}
}
