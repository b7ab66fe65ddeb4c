package usecase

import (
	"strings"

	ua "github.com/mileusna/useragent"
)

// previewAgents are link-unfurling crawlers of chat and social apps. They fetch
// a URL to render a preview, not because a person opened it.
var previewAgents = []string{
	"facebookexternalhit",
	"facebot",
	"twitterbot",
	"slackbot",
	"slack-imgproxy",
	"discordbot",
	"telegrambot",
	"whatsapp",
	"linkedinbot",
	"skypeuripreview",
	"pinterestbot",
	"redditbot",
	"embedly",
	"iframely",
	"vkshare",
	"viber",
	"snapchat",
	"mattermost-bot",
	"bitlybot",
	"google-pagerenderer",
	"applebot",
	"outlook-ios-linkpreview",
	"microsoftpreview",
}

// AgentFilter classifies inbound user agents.
type AgentFilter struct {
	denylist []string
}

// NewAgentFilter creates a filter over the built-in preview agent denylist.
func NewAgentFilter() *AgentFilter {
	return &AgentFilter{denylist: previewAgents}
}

// IsPreviewAgent reports whether the user agent belongs to a known preview crawler.
func (f *AgentFilter) IsPreviewAgent(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	lower := strings.ToLower(userAgent)
	for _, agent := range f.denylist {
		if strings.Contains(lower, agent) {
			return true
		}
	}
	return false
}

// DeviceClass returns the device type from a User-Agent string.
// Returns "Desktop", "Mobile", "Tablet", "Bot", or "Unknown".
func (f *AgentFilter) DeviceClass(userAgent string) string {
	if userAgent == "" {
		return "Unknown"
	}

	parsed := ua.Parse(userAgent)

	if parsed.Bot {
		return "Bot"
	}

	if parsed.Tablet {
		return "Tablet"
	}

	if parsed.Mobile {
		return "Mobile"
	}

	if parsed.Desktop {
		return "Desktop"
	}

	return "Unknown"
}
