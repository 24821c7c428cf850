package endpoint

import "strings"

// Category is a coarse business bucket for an endpoint. The vocabulary is
// fixed and small so per-category series stay cheap to aggregate.
type Category string

const (
	CategoryAuthentication     Category = "authentication"
	CategoryAIServices         Category = "ai-services"
	CategoryVideoGeneration    Category = "video-generation"
	CategoryAssetManagement    Category = "asset-management"
	CategoryClientManagement   Category = "client-management"
	CategoryCampaignManagement Category = "campaign-management"
	CategorySystemMonitoring   Category = "system-monitoring"
	CategoryOther              Category = "other"
)

// categoryRules is evaluated in order; the first matching substring wins.
// Order matters: "/ai" must be checked before broader client/campaign
// matches because AI endpoints nest under campaign routes.
var categoryRules = []struct {
	substr   string
	category Category
}{
	{"auth", CategoryAuthentication},
	{"login", CategoryAuthentication},
	{"logout", CategoryAuthentication},
	{"password", CategoryAuthentication},
	{"/ai", CategoryAIServices},
	{"motivation", CategoryAIServices},
	{"copy", CategoryAIServices},
	{"video", CategoryVideoGeneration},
	{"render", CategoryVideoGeneration},
	{"asset", CategoryAssetManagement},
	{"upload", CategoryAssetManagement},
	{"media", CategoryAssetManagement},
	{"client", CategoryClientManagement},
	{"user", CategoryClientManagement},
	{"profile", CategoryClientManagement},
	{"campaign", CategoryCampaignManagement},
	{"approval", CategoryCampaignManagement},
	{"notification", CategoryCampaignManagement},
	{"health", CategorySystemMonitoring},
	{"metrics", CategorySystemMonitoring},
	{"status", CategorySystemMonitoring},
	{"monitor", CategorySystemMonitoring},
}

// Categorize buckets a normalized path into the fixed category vocabulary.
// Unmatched paths fall into CategoryOther.
func Categorize(normalizedPath string) Category {
	for _, rule := range categoryRules {
		if strings.Contains(normalizedPath, rule.substr) {
			return rule.category
		}
	}
	return CategoryOther
}
