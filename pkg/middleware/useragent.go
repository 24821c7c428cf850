package middleware

import "strings"

// userAgentRules is evaluated in order; the first matching substring wins.
// Bots are checked before browsers because crawler agents usually embed a
// Mozilla token.
var userAgentRules = []struct {
	substr   string
	category string
}{
	{"bot", "bot"},
	{"crawler", "bot"},
	{"spider", "bot"},
	{"curl", "api"},
	{"wget", "api"},
	{"postman", "api"},
	{"python", "api"},
	{"go-http-client", "api"},
	{"axios", "api"},
	{"node-fetch", "api"},
	{"android", "mobile"},
	{"iphone", "mobile"},
	{"ipad", "mobile"},
	{"mobile", "mobile"},
	{"mozilla", "browser"},
	{"chrome", "browser"},
	{"safari", "browser"},
	{"firefox", "browser"},
	{"edge", "browser"},
}

// categorizeUserAgent buckets a User-Agent header into a small fixed
// vocabulary (bot, api, mobile, browser, other) for low-cardinality
// tagging.
func categorizeUserAgent(ua string) string {
	if ua == "" {
		return "other"
	}
	ua = strings.ToLower(ua)
	for _, rule := range userAgentRules {
		if strings.Contains(ua, rule.substr) {
			return rule.category
		}
	}
	return "other"
}
