package usage

// Operations recorded by the assistant.
const (
	OpUpdate   = "update"
	OpDescribe = "describe"
)

// UsageData is the root structure stored in .archfolio/usage.json.
type UsageData struct {
	Version   string          `json:"version"`
	Aggregate AggregatedStats `json:"aggregate"`
}

// AggregatedStats holds counters broken down by model and operation.
type AggregatedStats struct {
	Total       TokenCounts            `json:"total"`
	Calls       int64                  `json:"calls"`
	Failures    int64                  `json:"failures"`
	ByModel     map[string]TokenCounts `json:"by_model"`
	ByOperation map[string]TokenCounts `json:"by_operation"` // update, describe
}

// TokenCounts holds input/output sums.
type TokenCounts struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Total  int64 `json:"total"`
}

// Add adds one call's tokens.
func (tc *TokenCounts) Add(input, output int) {
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
}
