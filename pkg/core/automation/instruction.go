package automation

import (
	"bytes"
	"text/template"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/sheet"
)

// qaSystemPrompt frames the agent as a campaign QA operator.
const qaSystemPrompt = `You are a meticulous ad-operations QA specialist operating a browser
session on an advertising platform. You verify campaign setup values against
a plan. You never guess: when a value cannot be located you say so and lower
your confidence. Your final answer must end with the JSON report described in
the instruction.`

// instructionTmpl renders the QA task with the element manifest and the
// documented output contract. The contract is a request, not a guarantee:
// the reconciliation layer copes when the agent ignores it.
var instructionTmpl = template.Must(template.New("qa-instruction").Parse(`Verify the following campaign setup values on the platform UI at {{.PlatformURL}}.

For each element below, locate the corresponding field in the campaign
settings and compare the value shown on the page with the expected value.

ELEMENTS TO VERIFY:
{{range .Elements}}- id: {{.ID}}
  label: {{.Label}}
  expected: {{.ExpectedValue}}
{{if .XPath}}  locator hint: {{.XPath}}
{{end}}{{end}}
For every element report:
- actualValue: the exact value displayed on the page ("Not found" if absent)
- status: PASS if it matches the expected value, FAIL if it differs, WARNING if you cannot determine it
- confidence: 0-100
- notes: short explanation

When finished, output a single JSON object in this exact shape:

{
  "validationResults": [
    {"elementId": "element-1", "actualValue": "...", "status": "PASS", "confidence": 95, "notes": "..."}
  ]
}
`))

// BuildInstruction renders the natural-language instruction plus the
// requested-elements manifest handed to the automation agent.
func BuildInstruction(platformURL string, elements []sheet.CampaignElement) (string, error) {
	var buf bytes.Buffer
	err := instructionTmpl.Execute(&buf, struct {
		PlatformURL string
		Elements    []sheet.CampaignElement
	}{platformURL, elements})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
