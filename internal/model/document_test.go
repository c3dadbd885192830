package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCategory(t *testing.T) {
	tests := []struct {
		contentType string
		want        Category
	}{
		{"image/jpeg", CategoryImage},
		{"image/png", CategoryImage},
		{"image/webp", CategoryImage},
		{"application/pdf", CategoryDocument},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", CategorySpreadsheet},
		{"application/vnd.ms-excel", CategoryDocument}, // no "spreadsheet" substring in the legacy mime type
		{"application/vnd.openxmlformats-officedocument.presentationml.presentation", CategoryPresentation},
		{"text/plain", CategoryDocument},
		{"application/msword", CategoryDocument},
		{"application/octet-stream", CategoryDocument},
		{"  Image/PNG ", CategoryImage}, // whitespace and case folded before matching
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveCategory(tt.contentType))
		})
	}
}

func TestDeriveCategory_RoundTripAllowList(t *testing.T) {
	// The category stored at create time must equal an independent
	// re-derivation for every allow-listed content type.
	for _, ct := range AllowedContentTypes() {
		doc := Document{ContentType: ct}
		doc.ApplyCategory()
		assert.Equal(t, DeriveCategory(ct), doc.Category, "content type %s", ct)
	}
}

func TestApplyCategory_Recomputes(t *testing.T) {
	doc := Document{ContentType: "application/pdf"}
	doc.ApplyCategory()
	assert.Equal(t, CategoryDocument, doc.Category)

	// An update that changes the content type must re-derive.
	doc.ContentType = "image/png"
	doc.ApplyCategory()
	assert.Equal(t, CategoryImage, doc.Category)
}

func TestContentTypeAllowed(t *testing.T) {
	assert.True(t, ContentTypeAllowed("application/pdf"))
	assert.True(t, ContentTypeAllowed("image/gif"))
	assert.False(t, ContentTypeAllowed("video/mp4"))
	assert.False(t, ContentTypeAllowed(""))
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"comma string", []string{"safety, hvac ,  audit"}, []string{"safety", "hvac", "audit"}},
		{"already split", []string{"safety", "hvac"}, []string{"safety", "hvac"}},
		{"mixed", []string{"a,b", "c"}, []string{"a", "b", "c"}},
		{"drops empties", []string{" , ,a,", ""}, []string{"a"}},
		{"nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}
