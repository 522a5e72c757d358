package scoring

// Level buckets a score for display.
type Level string

const (
	LevelWeak      Level = "weak"
	LevelFair      Level = "fair"
	LevelGood      Level = "good"
	LevelStrong    Level = "strong"
	LevelExcellent Level = "excellent"
)

// Kind separates missing content from content that could be better.
type Kind string

const (
	KindCritical     Kind = "critical"
	KindOptimization Kind = "optimization"
)

// Improvement is a single suggestion and the points it costs.
type Improvement struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Points  int    `json:"points"`
	Type    Kind   `json:"type"`
	Section string `json:"section"`
}

// Result is the outcome of scoring one document.
type Result struct {
	Score        int           `json:"score"`
	Level        Level         `json:"level"`
	Improvements []Improvement `json:"improvements"`
}

// Thresholds used by the rules.
const (
	MinSkills           = 5
	MinSummaryChars     = 100
	MinResponsibilities = 3
)
