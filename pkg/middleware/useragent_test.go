package middleware

import "testing"

func TestCategorizeUserAgent(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"", "other"},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0", "browser"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", "mobile"},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", "mobile"},
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "bot"},
		{"curl/8.4.0", "api"},
		{"PostmanRuntime/7.36.0", "api"},
		{"python-requests/2.31.0", "api"},
		{"Go-http-client/2.0", "api"},
		{"axios/1.6.2", "api"},
		{"SomethingElse/1.0", "other"},
	}

	for _, tt := range tests {
		if got := categorizeUserAgent(tt.ua); got != tt.want {
			t.Errorf("categorizeUserAgent(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}
