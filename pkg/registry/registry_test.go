package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activity(id, taskType string) Activity {
	return Activity{
		ID:          id,
		DisplayName: id,
		Category:    "profile",
		TaskType:    taskType,
	}
}

func TestRegistry_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")

	reg, err := LoadOrNew(path)
	require.NoError(t, err)
	assert.Empty(t, reg.Activities)

	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	reg.Upsert(activity("submit-profile", "profile.submit"), now)
	require.NoError(t, Save(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19T09:00:00Z", loaded.LastUpdated)
	require.Len(t, loaded.Activities, 1)
	assert.Equal(t, "profile.submit", loaded.Activities[0].TaskType)
}

func TestRegistry_UpsertReplacesByID(t *testing.T) {
	reg := &ActivityRegistry{}
	reg.Upsert(activity("apply-job", "job.apply"), time.Now())

	updated := activity("apply-job", "job.apply")
	updated.Version = "1.1.0"
	reg.Upsert(updated, time.Now())

	require.Len(t, reg.Activities, 1)
	got, ok := reg.Find("apply-job")
	require.True(t, ok)
	assert.Equal(t, "1.1.0", got.Version)

	_, ok = reg.Find("missing")
	assert.False(t, ok)
}

func TestRegistry_Validate(t *testing.T) {
	tests := []struct {
		name       string
		activities []Activity
		wantErr    string
	}{
		{"valid", []Activity{activity("a", "x.a"), activity("b", "x.b")}, ""},
		{"empty", nil, "no activities"},
		{"duplicate id", []Activity{activity("a", "x.a"), activity("a", "x.b")}, "duplicate activity ID"},
		{"duplicate task type", []Activity{activity("a", "x.a"), activity("b", "x.a")}, "duplicate task type"},
		{"missing category", []Activity{{ID: "a", DisplayName: "A", TaskType: "x.a"}}, "Category"},
		{"missing id", []Activity{{DisplayName: "A"}}, "ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ActivityRegistry{Activities: tt.activities}).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSchemaMap(t *testing.T) {
	type schema struct {
		Type     string   `json:"type"`
		Required []string `json:"required"`
	}

	m, err := SchemaMap(schema{Type: "object", Required: []string{"jobId"}})

	require.NoError(t, err)
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, []interface{}{"jobId"}, m["required"])
}
