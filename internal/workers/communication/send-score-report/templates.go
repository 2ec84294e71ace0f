// internal/workers/communication/send-score-report/templates.go
package sendscorereport

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"credit-score-workers/internal/scoring"
)

const maxSMSLength = 160

const subjectTemplate = `Your credit score report: {{.Score}} ({{.RiskLevel}})`

const emailTemplate = `Hello {{.Name}},

Your credit assessment is complete.

Credit score: {{.Score}} / 900
Risk level:   {{.RiskLevel}}

Score breakdown (0-100)
{{- range .Components}}
  {{printf "%-20s" .Label}} {{printf "%5.1f" .Value}}
{{- end}}
{{if .Advice}}
What you can improve
{{- range .Advice}}
  - {{.}}
{{- end}}
{{end}}
{{- if .Recommendations}}
Recommended next steps
{{- range .Recommendations}}
  - {{.}}
{{- end}}
{{end}}
{{- if .AssessmentID}}
Reference: {{.AssessmentID}}
{{end}}
This report is based on the information you provided and is not a bureau credit report.
`

const smsTemplate = `Hi {{.Name}}, your credit score is {{.Score}} ({{.RiskLevel}}).{{if .AssessmentID}} Ref {{.AssessmentID}}.{{end}} Full report sent to your email.`

var (
	subjectTmpl = template.Must(template.New("subject").Parse(subjectTemplate))
	emailTmpl   = template.Must(template.New("email").Parse(emailTemplate))
	smsTmpl     = template.Must(template.New("sms").Parse(smsTemplate))
)

type component struct {
	Label string
	Value float64
}

type reportData struct {
	Name            string
	Score           int
	RiskLevel       scoring.RiskLevel
	Components      []component
	Advice          []string
	Recommendations []string
	AssessmentID    string
}

func newReportData(input *Input) reportData {
	name := strings.TrimSpace(input.ApplicantName)
	if name == "" {
		name = "there"
	}
	b := input.CreditScore.Breakdown
	return reportData{
		Name:      name,
		Score:     input.CreditScore.Score,
		RiskLevel: input.CreditScore.RiskLevel,
		Components: []component{
			{"Payment history", b.PaymentHistory},
			{"Credit utilization", b.CreditUtilization},
			{"Credit history", b.HistoryLength},
			{"Credit mix", b.CreditMix},
			{"Recent activity", b.RecentActivity},
			{"Income stability", b.IncomeStability},
		},
		Advice:          input.CreditScore.Advice,
		Recommendations: input.CreditScore.Recommendations,
		AssessmentID:    input.AssessmentID,
	}
}

type renderedReport struct {
	Subject string
	Body    string
	SMS     string
}

func renderReport(input *Input) (*renderedReport, error) {
	data := newReportData(input)

	subject, err := execute(subjectTmpl, data)
	if err != nil {
		return nil, err
	}
	body, err := execute(emailTmpl, data)
	if err != nil {
		return nil, err
	}
	sms, err := execute(smsTmpl, data)
	if err != nil {
		return nil, err
	}
	if runes := []rune(sms); len(runes) > maxSMSLength {
		sms = string(runes[:maxSMSLength-3]) + "..."
	}

	return &renderedReport{Subject: subject, Body: body, SMS: sms}, nil
}

func execute(t *template.Template, data reportData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
