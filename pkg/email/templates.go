package email

import (
	"bytes"
	"html/template"
)

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	ShareTmpl *template.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	shareTmpl, err := template.New("shareItinerary").Parse(shareItineraryTemplate)
	if err != nil {
		return nil, err
	}
	return &TemplateManager{ShareTmpl: shareTmpl}, nil
}

// ShareTemplateData holds the dynamic data for the share-itinerary email.
type ShareTemplateData struct {
	ItineraryTitle string
	Link           string
}

// GenerateShareItineraryEmailHTML executes the share template.
func (tm *TemplateManager) GenerateShareItineraryEmailHTML(data ShareTemplateData) (string, error) {
	var body bytes.Buffer
	if err := tm.ShareTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

const shareItineraryTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>An itinerary was shared with you</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>{{.ItineraryTitle}}</h2>
	<p>A trip itinerary has been shared with you. Open the link below to view
	the day-by-day plan, stops, and timings:</p>
	<p><a href="{{.Link}}">View Itinerary</a></p>
	<p>If you were not expecting this, you can ignore this email.</p>
</body>
</html>
`
