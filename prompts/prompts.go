package prompts

import (
	"bytes"
	"embed"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

// HelpdeskAnswerData is the template input for one generation turn.
type HelpdeskAnswerData struct {
	Context            string
	History            string
	UserMessage        string
	ClarificationsUsed int
	ClarificationsMax  int

	// FinalWarning is set when the clarification budget has one unit left;
	// the rendered prompt then tells the model this is its last chance to
	// ask before the ticket is escalated.
	FinalWarning bool
}

// RenderHelpdeskAnswerPrompt renders the system and user prompts for a turn
// using embedded Go templates.
func RenderHelpdeskAnswerPrompt(data HelpdeskAnswerData) (systemPrompt, userPrompt string, err error) {
	systemPrompt, err = loadPrompt("templates/helpdesk_answer_system.md", data)
	if err != nil {
		return "", "", err
	}

	userPrompt, err = loadPrompt("templates/helpdesk_answer_user.md", data)
	if err != nil {
		return "", "", err
	}

	return systemPrompt, userPrompt, nil
}

func loadPrompt(templatePath string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templatesFS, templatePath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
