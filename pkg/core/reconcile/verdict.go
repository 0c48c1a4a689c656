package reconcile

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/sheet"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/utils"
)

// validationKey is the literal key the agent's documented output contract
// puts its verdict array under.
const validationKey = `"validationResults"`

// sniffWindow is how much text after a label occurrence Strategy 3 inspects.
const sniffWindow = 300

// validationPayload is the agent's documented JSON output contract.
type validationPayload struct {
	ValidationResults []validationEntry `json:"validationResults"`
}

type validationEntry struct {
	ElementID   string `json:"elementId"`
	ActualValue string `json:"actualValue"`
	Status      string `json:"status"`
	Confidence  *int   `json:"confidence"`
	Notes       string `json:"notes"`
}

// ReconcileVerdicts extracts one QAResult per requested element from raw
// agent output, in request order. The agent is non-deterministic and not
// under this system's control, so extraction degrades through decreasing
// levels of structure assumption instead of failing:
//
//  1. embedded validationResults JSON (repaired if needed) — short-circuits
//  2. per-element labeled text blocks (ELEMENT:/STATUS:/CONFIDENCE: lines)
//  3. keyword sniff around the first mention of the label or expected value
//
// It never returns an error: a panic anywhere in extraction downgrades every
// element to a zero-confidence WARNING. Uncertainty is surfaced through
// status and confidence, not through exceptions.
func ReconcileVerdicts(rawOutput string, elements []sheet.CampaignElement) (results []QAResult) {
	now := time.Now().UTC()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[VerdictExtractor] PANIC during extraction: %v", r)
			results = processingErrorResults(elements, now)
		}
	}()

	// Seed every element with the undetermined default so no strategy can
	// leave a hole in the output.
	results = make([]QAResult, len(elements))
	for i, el := range elements {
		results[i] = QAResult{
			Element:     el,
			ActualValue: ActualUndetermined,
			Status:      StatusWarning,
			Confidence:  50,
			Notes:       "QA validation completed but specific result unclear",
			Timestamp:   now,
		}
	}

	// Strategy 1: embedded JSON per the documented output contract.
	if byID, ok := extractValidationJSON(rawOutput); ok {
		matched := 0
		for i := range results {
			if entry, hit := byID[results[i].Element.ID]; hit {
				applyEntry(&results[i], entry)
				matched++
			} else {
				results[i].ActualValue = ActualNotFound
				results[i].Notes = "No result reported for this element"
			}
		}
		if matched > 0 {
			log.Printf("[VerdictExtractor] strategy=json matched=%d/%d", matched, len(elements))
			return results
		}
		// A payload that matches nothing we asked for is treated as absent.
		for i := range results {
			results[i].ActualValue = ActualUndetermined
			results[i].Notes = "QA validation completed but specific result unclear"
		}
	}

	// Strategy 2/3: per-element text scanning. A block only counts as a hit
	// when it yields at least one structured field; a bare mention of the
	// label falls through to the keyword sniff.
	blockHits, sniffHits := 0, 0
	for i := range results {
		el := results[i].Element
		if block, found := findElementBlock(rawOutput, el.Label); found {
			if applyBlockFields(&results[i], block) {
				blockHits++
				continue
			}
		}
		if sniffKeywords(rawOutput, &results[i]) {
			sniffHits++
		}
	}
	log.Printf("[VerdictExtractor] strategy=text blocks=%d sniffed=%d defaults=%d",
		blockHits, sniffHits, len(elements)-blockHits-sniffHits)
	return results
}

func processingErrorResults(elements []sheet.CampaignElement, now time.Time) []QAResult {
	out := make([]QAResult, len(elements))
	for i, el := range elements {
		out[i] = QAResult{
			Element:     el,
			ActualValue: ActualProcessingError,
			Status:      StatusWarning,
			Confidence:  0,
			Notes:       "Error occurred during result processing",
			Timestamp:   now,
		}
	}
	return out
}

// extractValidationJSON finds the first brace-balanced block containing the
// validationResults key and parses it, repairing malformed JSON if needed.
// Agents routinely restate the output contract in prose before emitting the
// real payload, so every occurrence of the key is tried in order, not just
// the first.
func extractValidationJSON(text string) (map[string]validationEntry, bool) {
	for keyIdx := strings.Index(text, validationKey); keyIdx >= 0; {
		if byID, ok := parseAroundKey(text, keyIdx); ok {
			return byID, true
		}
		rest := strings.Index(text[keyIdx+len(validationKey):], validationKey)
		if rest < 0 {
			break
		}
		keyIdx += len(validationKey) + rest
	}
	return nil, false
}

// parseAroundKey tries to parse a payload object around one occurrence of the
// validationResults key.
func parseAroundKey(text string, keyIdx int) (map[string]validationEntry, bool) {
	// Walk candidate opening braces backwards from the key: the payload
	// object usually starts at the nearest one, but agent prose may contain
	// stray braces, so keep widening until a candidate parses.
	for start := strings.LastIndex(text[:keyIdx], "{"); start >= 0; start = strings.LastIndex(text[:start], "{") {
		block, ok := balancedBlock(text, start)
		if !ok {
			// Unclosed object (truncated output): hand the tail to the
			// repair layer, which can close brackets.
			block = text[start:]
		}

		var payload validationPayload
		if _, err := utils.SmartParse(block, &payload); err != nil {
			continue
		}
		if payload.ValidationResults == nil {
			continue
		}

		byID := make(map[string]validationEntry, len(payload.ValidationResults))
		for _, entry := range payload.ValidationResults {
			if entry.ElementID == "" {
				continue
			}
			if _, dup := byID[entry.ElementID]; !dup {
				byID[entry.ElementID] = entry
			}
		}
		return byID, true
	}
	return nil, false
}

// balancedBlock returns the substring from start to the matching close brace.
func balancedBlock(text string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// applyEntry maps a JSON entry onto a seeded result, defaulting any missing field.
func applyEntry(r *QAResult, entry validationEntry) {
	if entry.ActualValue != "" {
		r.ActualValue = entry.ActualValue
	} else {
		r.ActualValue = ActualNotFound
	}
	r.Status = normalizeStatus(entry.Status)
	if entry.Confidence != nil {
		r.Confidence = clampConfidence(*entry.Confidence)
	} else {
		r.Confidence = 50
	}
	if entry.Notes != "" {
		r.Notes = entry.Notes
	} else {
		r.Notes = "No notes provided"
	}
}

func normalizeStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PASS":
		return StatusPass
	case "FAIL":
		return StatusFail
	default:
		return StatusWarning
	}
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

var elementMarker = regexp.MustCompile(`(?i)ELEMENT:`)

// findElementBlock locates the labeled text block for one element. Two
// candidate anchors are tried — an explicit "ELEMENT: <label>" marker and a
// bare label occurrence — each extending to the next ELEMENT: marker or end
// of text. When both hit, the longer block wins since it carries more context.
func findElementBlock(text, label string) (string, bool) {
	quoted := regexp.QuoteMeta(label)

	best := ""
	if loc := regexp.MustCompile(`(?i)ELEMENT:\s*` + quoted).FindStringIndex(text); loc != nil {
		best = blockFrom(text, loc[0])
	}
	if loc := regexp.MustCompile(`(?i)` + quoted).FindStringIndex(text); loc != nil {
		if b := blockFrom(text, loc[0]); len(b) > len(best) {
			best = b
		}
	}
	return best, best != ""
}

// blockFrom slices from start to the next ELEMENT: marker, or to end of text.
func blockFrom(text string, start int) string {
	rest := text[start:]
	// Skip the anchor itself so a leading "ELEMENT:" is not its own terminator.
	if next := elementMarker.FindStringIndex(rest[1:]); next != nil {
		return rest[:next[0]+1]
	}
	return rest
}

// Field patterns for Strategy 2, ordered: first hit wins per field.
var (
	actualPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ACTUAL:\s*(.+)`),
		regexp.MustCompile(`(?i)Actual value found:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)On page:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)Actual\s+"([^"]+)"`),
	}
	statusPattern     = regexp.MustCompile(`(?i)STATUS:\s*(PASS|FAIL|WARNING)`)
	confidencePattern = regexp.MustCompile(`(?i)CONFIDENCE:\s*(\d+)\s*%?`)
	notesPattern      = regexp.MustCompile(`(?i)NOTES:\s*(.+)`)
)

// applyBlockFields scans a labeled block for ACTUAL/STATUS/CONFIDENCE/NOTES
// lines. Fields that do not appear keep the seeded defaults. Reports whether
// any structured field was found.
func applyBlockFields(r *QAResult, block string) bool {
	matched := false
	for _, p := range actualPatterns {
		if m := p.FindStringSubmatch(block); m != nil {
			r.ActualValue = strings.TrimSpace(m[1])
			matched = true
			break
		}
	}
	if m := statusPattern.FindStringSubmatch(block); m != nil {
		r.Status = normalizeStatus(m[1])
		matched = true
	}
	if m := confidencePattern.FindStringSubmatch(block); m != nil {
		if c, err := strconv.Atoi(m[1]); err == nil {
			r.Confidence = clampConfidence(c)
			matched = true
		}
	}
	if m := notesPattern.FindStringSubmatch(block); m != nil {
		r.Notes = strings.TrimSpace(m[1])
		matched = true
	}
	return matched
}

// sniffKeywords is the last-resort strategy: if the element's label or
// expected value appears anywhere in the text, classify by pass/fail words
// in a fixed window after the first occurrence.
func sniffKeywords(text string, r *QAResult) bool {
	lower := strings.ToLower(text)
	idx := -1
	if label := strings.ToLower(r.Element.Label); label != "" {
		idx = strings.Index(lower, label)
	}
	if idx < 0 {
		if want := strings.ToLower(r.Element.ExpectedValue); want != "" {
			idx = strings.Index(lower, want)
		}
	}
	if idx < 0 {
		return false
	}

	end := idx + sniffWindow
	if end > len(lower) {
		end = len(lower)
	}
	window := lower[idx:end]

	switch {
	case strings.Contains(window, "pass"):
		r.Status = StatusPass
		r.Confidence = 75
		r.ActualValue = "Found and validated"
	case strings.Contains(window, "fail"):
		r.Status = StatusFail
		r.Confidence = 25
		r.ActualValue = "Found but does not match"
	}
	return true
}
