package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// ClientInfo holds the parsed booking channel details attached to
// audit events.
type ClientInfo struct {
	Channel  string `json:"channel"`  // mobile, tablet, desktop, unknown
	OS       string `json:"os"`       // Android 12, iOS 15, Windows 10 ...
	Browser  string `json:"browser"`  // Chrome, Safari, Firefox ...
	Platform string `json:"platform"` // android, ios, windows, mac, linux
	IsBot    bool   `json:"is_bot"`
	Raw      string `json:"raw"`
}

var tabletMarkers = []string{"ipad", "tablet", "kindle", "nexus 7", "nexus 9", "nexus 10", "sm-t", "tab"}

var platformNames = map[string]string{
	"android":   "android",
	"ios":       "ios",
	"iphone os": "ios",
	"windows":   "windows",
	"mac os x":  "mac",
	"macos":     "mac",
	"linux":     "linux",
	"ubuntu":    "linux",
}

// ParseUserAgent extracts booking channel details from a User-Agent
// string. Empty input yields an unknown channel rather than an error.
func ParseUserAgent(userAgent string) ClientInfo {
	if userAgent == "" {
		return ClientInfo{Channel: "unknown", OS: "Unknown", Browser: "Unknown", Platform: "unknown"}
	}

	parser := ua.New(userAgent)
	browser, _ := parser.Browser()
	if browser == "" {
		browser = "Unknown"
	}

	info := ClientInfo{
		Channel:  channelOf(parser),
		OS:       osOf(parser),
		Browser:  browser,
		Platform: platformOf(parser),
		IsBot:    parser.Bot(),
		Raw:      userAgent,
	}
	return info
}

func channelOf(parser *ua.UserAgent) string {
	if !parser.Mobile() {
		return "desktop"
	}
	lower := strings.ToLower(parser.UA())
	for _, marker := range tabletMarkers {
		if strings.Contains(lower, marker) {
			return "tablet"
		}
	}
	return "mobile"
}

func osOf(parser *ua.UserAgent) string {
	info := parser.OSInfo()
	if info.Name == "" {
		return "Unknown"
	}
	if info.Version == "" {
		return info.Name
	}
	return info.Name + " " + info.Version
}

func platformOf(parser *ua.UserAgent) string {
	name := strings.ToLower(parser.OSInfo().Name)
	for key, platform := range platformNames {
		if strings.Contains(name, key) {
			return platform
		}
	}
	return "unknown"
}
