package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMetadata_Clone tests that clones are independent
func TestMetadata_Clone(t *testing.T) {
	meta := Metadata{FieldTitle: "SRE", FieldCategory: "ops"}
	clone := meta.Clone()

	require.Equal(t, meta, clone)
	clone[FieldTitle] = "changed"
	assert.Equal(t, "SRE", meta[FieldTitle])
}

// TestMetadata_CloneNil tests cloning nil metadata
func TestMetadata_CloneNil(t *testing.T) {
	var meta Metadata
	assert.Nil(t, meta.Clone())
}

// TestMetadata_Category tests the classification accessor
func TestMetadata_Category(t *testing.T) {
	assert.Equal(t, "backend", Metadata{FieldCategory: "backend"}.Category())
	assert.Equal(t, "", Metadata{}.Category())
}

// TestCategoryFilter tests filter construction from a category
func TestCategoryFilter(t *testing.T) {
	assert.Nil(t, CategoryFilter(""))

	f := CategoryFilter("data")
	require.NotNil(t, f)
	assert.Equal(t, FieldCategory, f.Field)
	assert.Equal(t, "data", f.Value)
}

// TestFilter_Matches tests equality filtering on metadata
func TestFilter_Matches(t *testing.T) {
	meta := Metadata{FieldCategory: "data", FieldLocation: "北京"}

	tests := []struct {
		name     string
		filter   *Filter
		expected bool
	}{
		{name: "nil filter matches", filter: nil, expected: true},
		{name: "equal value", filter: CategoryFilter("data"), expected: true},
		{name: "different value", filter: CategoryFilter("ops"), expected: false},
		{name: "other field", filter: &Filter{Field: FieldLocation, Value: "北京"}, expected: true},
		{name: "missing field", filter: &Filter{Field: FieldCode, Value: "x"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Matches(meta))
		})
	}
}

// TestDocumentID_String tests the string form of an ID
func TestDocumentID_String(t *testing.T) {
	assert.Equal(t, "abc", DocumentID("abc").String())
}

// TestBuildOptions_EffectiveBatchSize tests the batch size default
func TestBuildOptions_EffectiveBatchSize(t *testing.T) {
	assert.Equal(t, DefaultBatchSize, BuildOptions{}.EffectiveBatchSize())
	assert.Equal(t, DefaultBatchSize, BuildOptions{BatchSize: -3}.EffectiveBatchSize())
	assert.Equal(t, 7, BuildOptions{BatchSize: 7}.EffectiveBatchSize())
}

// TestProgress_Fraction tests progress ratios
func TestProgress_Fraction(t *testing.T) {
	assert.Equal(t, 0.0, Progress{Processed: 5}.Fraction())
	assert.Equal(t, 0.5, Progress{Processed: 5, Total: 10}.Fraction())
	assert.Equal(t, 1.0, Progress{Processed: 12, Total: 10}.Fraction())
}
