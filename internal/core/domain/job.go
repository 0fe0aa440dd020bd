package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Job posting field keys as they appear in the source feed.
const (
	FieldCompany      = "公司名称"
	FieldTitle        = "职位名称"
	FieldLocation     = "工作地点"
	FieldSalary       = "薪资范围"
	FieldExperience   = "工作经验"
	FieldEducation    = "学历要求"
	FieldTags         = "职位标签"
	FieldSkills       = "所需技能"
	FieldCompanySize  = "公司规模"
	FieldCompanyStage = "公司阶段"
	FieldIndustry     = "所属行业"
	FieldDescription  = "岗位描述"

	// FieldCategory is the caller-supplied classification used for filtering.
	FieldCategory = "job_category"

	// FieldCode is the caller-supplied classification code.
	FieldCode = "job_code"
)

// identitySeparator joins the identity fields before hashing.
const identitySeparator = "|"

// metadataFields is the fixed, ordered set of retrievable metadata keys.
var metadataFields = []string{
	FieldCompany,
	FieldTitle,
	FieldLocation,
	FieldSalary,
	FieldExperience,
	FieldEducation,
	FieldTags,
	FieldSkills,
	FieldCompanySize,
	FieldCompanyStage,
	FieldIndustry,
	FieldDescription,
	FieldCategory,
	FieldCode,
}

// textFields are the fields that feed the embeddable text, in order.
var textFields = []string{
	FieldTitle,
	FieldSkills,
	FieldDescription,
}

// JobRecord is a raw job posting: an open mapping of field names to values.
// Values may be absent, nil, strings or JSON numbers; always read them
// through Normalize.
type JobRecord map[string]any

// Get returns the normalised value of a field.
func (r JobRecord) Get(field string) string {
	if r == nil {
		return ""
	}
	return Normalize(r[field])
}

// MetadataFields returns the ordered list of metadata keys.
func MetadataFields() []string {
	out := make([]string, len(metadataFields))
	copy(out, metadataFields)
	return out
}

// Normalize converts a raw field value into a trimmed string.
// Absent and nil values become the empty string.
func Normalize(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return strings.TrimSpace(v.String())
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		if v {
			return "True"
		}
		return "False"
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Identity derives the content-addressed ID of a record from its company,
// title and description. Other fields do not contribute.
func Identity(rec JobRecord) DocumentID {
	key := strings.Join([]string{
		rec.Get(FieldCompany),
		rec.Get(FieldTitle),
		rec.Get(FieldDescription),
	}, identitySeparator)
	sum := sha256.Sum256([]byte(key))
	return DocumentID(hex.EncodeToString(sum[:]))
}

// BuildText composes the embeddable text of a record. Each non-empty
// contributing field is rendered as "<label>: <value>" on its own line.
// An empty result means the record is not indexable.
func BuildText(rec JobRecord) string {
	parts := make([]string, 0, len(textFields))
	for _, field := range textFields {
		if value := rec.Get(field); value != "" {
			parts = append(parts, field+": "+value)
		}
	}
	return strings.Join(parts, "\n")
}

// BuildMetadata returns the full fixed set of metadata keys for a record.
// Absent fields are present with an empty value.
func BuildMetadata(rec JobRecord) Metadata {
	meta := make(Metadata, len(metadataFields))
	for _, field := range metadataFields {
		meta[field] = rec.Get(field)
	}
	return meta
}
