package notification

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	guestdomain "github.com/vowsuite/vowsuite/internal/guest/domain"
)

// TemplateData is the variable set message templates may reference.
type TemplateData struct {
	GuestName   string
	EventTitle  string
	CoupleNames string
	StartDate   string
	EndDate     string
	Location    string
	RSVPLink    string
	RSVPStatus  string
}

func NewTemplateData(event eventdomain.Event, guest guestdomain.Guest) TemplateData {
	data := TemplateData{
		GuestName:   guest.FullName(),
		EventTitle:  event.Title,
		CoupleNames: event.CoupleNames,
		Location:    event.Location,
		RSVPStatus:  string(guest.RSVPStatus),
	}
	if event.StartDate != nil {
		data.StartDate = event.StartDate.Format(humanDate)
	}
	if event.EndDate != nil {
		data.EndDate = event.EndDate.Format(humanDate)
	}
	return data
}

const humanDate = "January 2, 2006"

// RenderText executes a plain-text message template.
func RenderText(tmpl string, data TemplateData) (string, error) {
	parsed, err := texttemplate.New("message").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// RenderHTML executes an HTML message template with contextual
// escaping.
func RenderHTML(tmpl string, data TemplateData) (string, error) {
	parsed, err := htmltemplate.New("message").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
