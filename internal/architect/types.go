package architect

// CloudService is one recommended managed service and the reason it fits.
type CloudService struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SolutionRecommendation is the structured architecture answer expected
// from the model. All fields are required; a response missing any of them
// is treated as malformed output.
type SolutionRecommendation struct {
	ProblemSummary       string         `json:"problemSummary"`
	RecommendedServices  []CloudService `json:"recommendedServices"`
	ArchitectureOverview string         `json:"architectureOverview"`
	BestPractices        []string       `json:"bestPractices"`
	Notes                string         `json:"notes"`
}
