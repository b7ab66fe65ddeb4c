package usecase

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"go-shortview/internal/tracking/domain"
)

const textBody = `Hello,

Your {{.Noun}} "{{.Description}}" was {{.Verb}} on {{.When}} from {{.IP}}.

See the {{.Noun}}: {{.DetailURL}}
See this {{.EventNoun}}: {{.EventURL}}

You receive this mail because of your notification settings for this {{.Noun}}.
Change them here: {{.PreferencesURL}}

-- {{.Product}}
`

const htmlBody = `<p>Hello,</p>
<p>Your {{.Noun}} <strong>{{.Description}}</strong> was {{.Verb}} on {{.When}} from <samp>{{.IP}}</samp>.</p>
<ul>
<li><a href="{{.DetailURL}}">See the {{.Noun}}</a></li>
<li><a href="{{.EventURL}}">See this {{.EventNoun}}</a></li>
</ul>
<p><small>You receive this mail because of your notification settings for this {{.Noun}}.
<a href="{{.PreferencesURL}}">Change them here</a>.</small></p>
<p>-- {{.Product}}</p>
`

var (
	textTemplate = texttemplate.Must(texttemplate.New("text").Parse(textBody))
	htmlTemplate = htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody))
)

// NotificationPolicy decides whether an event warrants an owner mail and composes it.
type NotificationPolicy struct {
	site Site
}

// NewNotificationPolicy creates a policy building links for site.
func NewNotificationPolicy(site Site) *NotificationPolicy {
	return &NotificationPolicy{site: site}
}

// ShouldNotify applies the effective policy to the event ordinal. The ordinal
// counts events of the artifact, starting at 1.
func (p *NotificationPolicy) ShouldNotify(a *domain.Artifact, profile *domain.Profile, ordinal int64) bool {
	var ownerDefault domain.NotifyPolicy
	if profile != nil {
		ownerDefault = profile.DefaultNotify
	}

	switch a.Notify.Resolve(ownerDefault) {
	case domain.NotifyFirstClick:
		return ordinal == 1
	case domain.NotifyEveryClick:
		return true
	default:
		return false
	}
}

type mailData struct {
	Noun           string
	EventNoun      string
	Verb           string
	Description    string
	When           string
	IP             string
	DetailURL      string
	EventURL       string
	PreferencesURL string
	Product        string
}

// Compose builds the owner mail for one event.
func (p *NotificationPolicy) Compose(a *domain.Artifact, profile *domain.Profile, e *domain.Event) (domain.Notification, error) {
	data := mailData{
		Noun:           "link",
		EventNoun:      "click",
		Verb:           "clicked",
		Description:    a.Description,
		When:           e.OccurredAt.UTC().Format(time.RFC1123),
		IP:             e.SourceIP,
		DetailURL:      p.site.DetailURL(a.ID),
		EventURL:       p.site.EventURL(a.ID, e.ID),
		PreferencesURL: p.site.PreferencesURL(),
		Product:        p.productName(),
	}
	if a.Kind == domain.KindPixel {
		data.Noun, data.EventNoun, data.Verb = "pixel", "open", "opened"
	}
	if data.Description == "" {
		data.Description = "untitled " + data.Noun
	}

	var text, html bytes.Buffer
	if err := textTemplate.Execute(&text, data); err != nil {
		return domain.Notification{}, fmt.Errorf("failed to render text body: %w", err)
	}
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return domain.Notification{}, fmt.Errorf("failed to render html body: %w", err)
	}

	return domain.Notification{
		Subject: fmt.Sprintf("[%s] Your %s %q was %s", data.Product, data.Noun, data.Description, data.Verb),
		From:    p.site.MailFrom,
		To:      profile.Email,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func (p *NotificationPolicy) productName() string {
	if p.site.ProductName == "" {
		return "ShortView"
	}
	return p.site.ProductName
}
