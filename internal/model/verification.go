package model

// VerificationStatus summarizes how much of the enrichment was trustworthy.
type VerificationStatus string

const (
	StatusVerified          VerificationStatus = "verified"
	StatusPartial           VerificationStatus = "partial"
	StatusSkippedTimeout    VerificationStatus = "skipped_timeout"
	StatusSkippedNoEvidence VerificationStatus = "skipped_no_evidence"
)

// FactsDraft is model-proposed enrichment, untrusted until validated.
type FactsDraft struct {
	Facts           []string `json:"facts"`
	SummaryAddition string   `json:"summary_addition"`
}

// VerificationResult is the validator's output: only evidence-supported
// statements survive into Facts and the appended summary sentences.
type VerificationResult struct {
	Facts             []string           `json:"facts"`
	Summary           string             `json:"summary"`
	Status            VerificationStatus `json:"status"`
	VerifiedFactCount int                `json:"verified_fact_count"`
	SourceNamesUsed   []string           `json:"source_names_used"`
	LatencyMs         int64              `json:"latency_ms"`
}

// RecognitionResult is the pipeline's user-visible response.
type RecognitionResult struct {
	RequestID   string      `json:"request_id"`
	Attribution Attribution `json:"attribution"`

	// Facts and verification metadata are present only when the operating
	// mode applied a verification result.
	Facts              []string           `json:"facts,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status,omitempty"`
	Sources            []string           `json:"sources,omitempty"`

	IdentifyMs int64 `json:"identify_ms"`
	EvidenceMs int64 `json:"evidence_ms,omitempty"`
	ValidateMs int64 `json:"validate_ms,omitempty"`
	FromCache  bool  `json:"from_cache,omitempty"`
}
