package model

// EvidenceField names the attribution field an evidence record speaks to.
type EvidenceField string

const (
	FieldTitle    EvidenceField = "title"
	FieldCreator  EvidenceField = "creator"
	FieldDate     EvidenceField = "date"
	FieldLocation EvidenceField = "location"
	FieldStyle    EvidenceField = "style"
	FieldSummary  EvidenceField = "summary"
)

// CoverageFields are the five attribution fields counted by coverage scoring.
// Summary records corroborate text but do not cover a field.
var CoverageFields = []EvidenceField{FieldTitle, FieldCreator, FieldDate, FieldLocation, FieldStyle}

// EvidenceConfidence grades how directly a provider asserted a claim.
type EvidenceConfidence string

const (
	EvidenceHigh   EvidenceConfidence = "high"
	EvidenceMedium EvidenceConfidence = "medium"
	EvidenceLow    EvidenceConfidence = "low"
)

// EvidenceRecord is one atomic claim from one provider.
type EvidenceRecord struct {
	Field      EvidenceField      `json:"field"`
	Value      string             `json:"value"`
	SourceName string             `json:"source_name"`
	SourceURL  string             `json:"source_url,omitempty"`
	Confidence EvidenceConfidence `json:"confidence"`
}

// ProviderTier separates the primary encyclopedic source from
// secondary museum catalogs.
type ProviderTier int

const (
	TierPrimary   ProviderTier = 1
	TierSecondary ProviderTier = 2
)

// ProviderOutcome records how one provider's query went, successful or not.
type ProviderOutcome struct {
	Name        string       `json:"name"`
	URL         string       `json:"url,omitempty"`
	Tier        ProviderTier `json:"tier"`
	LatencyMs   int64        `json:"latency_ms"`
	OK          bool         `json:"ok"`
	RecordCount int          `json:"record_count"`
}

// EvidenceBundle is the orchestrator's combined output for one subject.
type EvidenceBundle struct {
	Records  []EvidenceRecord  `json:"records"`
	Outcomes []ProviderOutcome `json:"outcomes"`

	// Coverage marks which of the five attribution fields have at least
	// one supporting record.
	Coverage map[EvidenceField]bool `json:"coverage"`

	// CoverageScore counts covered fields (0-5) across all providers;
	// PrimaryCoverageScore counts only Phase A records and gates whether
	// model enrichment is worth attempting.
	CoverageScore        int  `json:"coverage_score"`
	PrimaryCoverageScore int  `json:"primary_coverage_score"`
	TimedOut             bool `json:"timed_out"`
}

// Empty reports whether the bundle contains no records at all.
func (b *EvidenceBundle) Empty() bool {
	return b == nil || len(b.Records) == 0
}

// ComputeCoverage rebuilds the coverage vector and score from Records.
func (b *EvidenceBundle) ComputeCoverage() {
	b.Coverage = CoverageOf(b.Records)
	b.CoverageScore = len(b.Coverage)
}

// CoverageOf returns the set of covered attribution fields for a record list.
func CoverageOf(records []EvidenceRecord) map[EvidenceField]bool {
	covered := make(map[EvidenceField]bool)
	for _, r := range records {
		for _, f := range CoverageFields {
			if r.Field == f && r.Value != "" {
				covered[f] = true
			}
		}
	}
	return covered
}
