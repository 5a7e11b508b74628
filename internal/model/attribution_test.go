package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfidenceTier(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ParseConfidenceTier("high"))
	assert.Equal(t, ConfidenceHigh, ParseConfidenceTier(" HIGH "))
	assert.Equal(t, ConfidenceMedium, ParseConfidenceTier("medium"))
	assert.Equal(t, ConfidenceMedium, ParseConfidenceTier("med"))
	assert.Equal(t, ConfidenceLow, ParseConfidenceTier("low"))
	assert.Equal(t, ConfidenceLow, ParseConfidenceTier("certain"))
	assert.Equal(t, ConfidenceLow, ParseConfidenceTier(""))
}

func TestIsUnknown(t *testing.T) {
	assert.True(t, IsUnknown("unknown"))
	assert.True(t, IsUnknown(" Unknown "))
	assert.True(t, IsUnknown(""))
	assert.True(t, IsUnknown("   "))
	assert.False(t, IsUnknown("Claude Monet"))
}

func TestUnresolved(t *testing.T) {
	assert.True(t, Attribution{Title: "unknown", Creator: "unknown"}.Unresolved())
	assert.False(t, Attribution{Title: "Water Lilies", Creator: "unknown"}.Unresolved())
	assert.False(t, Attribution{Title: "unknown", Creator: "Claude Monet"}.Unresolved())
}

func TestSubjectLine(t *testing.T) {
	assert.Equal(t, `"Water Lilies" by Claude Monet`,
		Attribution{Title: "Water Lilies", Creator: "Claude Monet"}.SubjectLine())
	assert.Equal(t, "Water Lilies",
		Attribution{Title: "Water Lilies", Creator: "unknown"}.SubjectLine())
	assert.Equal(t, "Claude Monet",
		Attribution{Title: "unknown", Creator: "Claude Monet"}.SubjectLine())
}

func TestCoverage(t *testing.T) {
	records := []EvidenceRecord{
		{Field: FieldTitle, Value: "Water Lilies"},
		{Field: FieldTitle, Value: "Water Lilies series"},
		{Field: FieldDate, Value: "1906"},
		{Field: FieldSummary, Value: "A series of about 250 paintings."},
		{Field: FieldCreator, Value: ""},
	}

	covered := CoverageOf(records)
	assert.Len(t, covered, 2)
	assert.True(t, covered[FieldTitle])
	assert.True(t, covered[FieldDate])
	assert.False(t, covered[FieldSummary], "summary records do not count toward coverage")
	assert.False(t, covered[FieldCreator], "empty values do not count")

	b := &EvidenceBundle{Records: records}
	b.ComputeCoverage()
	assert.Equal(t, 2, b.CoverageScore)
	assert.False(t, b.Empty())
	assert.True(t, (&EvidenceBundle{}).Empty())

	var nilBundle *EvidenceBundle
	assert.True(t, nilBundle.Empty())
}
