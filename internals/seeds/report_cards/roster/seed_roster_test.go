package roster

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoster_BundledData(t *testing.T) {
	content, err := os.ReadFile("data_roster.json")
	require.NoError(t, err)

	data, err := ParseRoster(content)
	require.NoError(t, err)
	require.Len(t, data.Classes, 1)
	assert.Equal(t, "VII A", data.Classes[0].ClassName)
	assert.Len(t, data.Classes[0].Students, 3)
	require.NotNil(t, data.DefaultWeight)
	w := data.DefaultWeight
	assert.Equal(t, 100, w.UH+w.UTS+w.UAS+w.Praktik)
}

func TestParseRoster_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad json":        `{`,
		"bad semester":    `{"academic_year":"2025/2026","semester":"tengah"}`,
		"missing class":   `{"academic_year":"2025/2026","semester":"ganjil","classes":[{"class_name":"VII A"}]}`,
		"missing student": `{"academic_year":"2025/2026","semester":"ganjil","classes":[{"class_id":"6f1c2a3e-7b4d-4c8e-9a21-3d5e6f708192","students":[{"name":"Ani"}]}]}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRoster([]byte(raw))
			assert.Error(t, err)
		})
	}
}
