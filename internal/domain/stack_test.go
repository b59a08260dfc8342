package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOS(t *testing.T) {
	tests := []struct {
		in      string
		want    OS
		wantErr bool
	}{
		{"windows", OSWindows, false},
		{"Windows", OSWindows, false},
		{" linux ", OSLinux, false},
		{"macOS", OSMacOS, false},
		{"", "", true},
		{"solaris", "", true},
		{"mac", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOS(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArtifactFilename(t *testing.T) {
	assert.Equal(t, "install.ps1", (&ScriptArtifact{OS: OSWindows}).Filename())
	assert.Equal(t, "install.sh", (&ScriptArtifact{OS: OSLinux}).Filename())
	assert.Equal(t, "install.sh", (&ScriptArtifact{OS: OSMacOS}).Filename())
	assert.Equal(t, "PowerShell", OSWindows.Dialect())
	assert.Equal(t, "Bash", OSMacOS.Dialect())
}

func TestNewSelectionDeduplicatesByName(t *testing.T) {
	sel := NewSelection([]StackItem{
		{Name: "React"},
		{Name: " Node.js ", Version: "20"},
		{Name: "React", Version: "18"},
		{Name: "Node.js", Version: "22"},
		{Name: "  "},
	})

	require.Len(t, sel, 2)
	assert.Equal(t, StackItem{Name: "React", Version: "18"}, sel[0])
	assert.Equal(t, StackItem{Name: "Node.js", Version: "20"}, sel[1])
	assert.Equal(t, "React 18, Node.js 20", sel.Describe())
}

func TestFromItems(t *testing.T) {
	in := FromNames([]string{"React", "Node.js", "MongoDB"})
	assert.Equal(t, InputCatalog, in.Kind)
	assert.False(t, in.NeedsValidation())
	assert.Equal(t, "React (latest), Node.js (latest), MongoDB (latest)", in.Describe())

	in = FromItems([]StackItem{{Name: "React", Version: "1.0-beta"}})
	assert.Equal(t, InputFreeText, in.Kind, "unknown version must be validated")

	in = FromNames([]string{"React", "asdkfjalksdjf"})
	assert.Equal(t, InputFreeText, in.Kind)
	assert.Equal(t, "React (latest), asdkfjalksdjf (latest)", in.Text)

	assert.True(t, FromNames(nil).Empty())
}

func TestStackRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     StackRequest
		wantErr bool
	}{
		{"free text", StackRequest{Input: FreeText("React, Node.js"), OS: OSLinux}, false},
		{"selection", StackRequest{Input: FromNames([]string{"Go"}), OS: OSWindows}, false},
		{"blank text", StackRequest{Input: FreeText("   "), OS: OSLinux}, true},
		{"empty selection", StackRequest{Input: FromNames(nil), OS: OSLinux}, true},
		{"missing os", StackRequest{Input: FreeText("Go")}, true},
		{"unknown os", StackRequest{Input: FreeText("Go"), OS: "beos"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRawStackUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		kind     InputKind
		describe string
		present  bool
	}{
		{"string", `{"stack":"React, Node.js, MongoDB","os":"linux"}`, InputFreeText, "React, Node.js, MongoDB", true},
		{"names", `{"stack":["Docker","Git"],"os":"linux"}`, InputCatalog, "Docker (latest), Git (latest)", true},
		{"objects", `{"stack":[{"name":"Python","version":"3.12"},"Redis"],"os":"linux"}`, InputCatalog, "Python 3.12, Redis (latest)", true},
		{"missing", `{"os":"linux"}`, InputFreeText, "", false},
		{"null", `{"stack":null,"os":"linux"}`, InputFreeText, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req GenerateScriptRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.present, req.Stack.Present())
			assert.Equal(t, tt.kind, req.Stack.Input.Kind)
			assert.Equal(t, tt.describe, req.Stack.Input.Describe())
		})
	}

	var req GenerateScriptRequest
	err := json.Unmarshal([]byte(`{"stack":42}`), &req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalogIsClosed(t *testing.T) {
	for _, tech := range AllTechs() {
		assert.NotEmpty(t, tech.Name())
		assert.NotEmpty(t, tech.Icon(), tech.Name())
		got, ok := LookupTech(tech.Name())
		assert.True(t, ok)
		assert.Equal(t, tech, got)
		assert.True(t, tech.HasVersion(LatestVersion))
	}

	total := 0
	for _, c := range Categories {
		total += len(TechsIn(c))
	}
	assert.Equal(t, len(AllTechs()), total)

	for _, p := range Catalog().Presets {
		assert.Equal(t, InputCatalog, FromNames(p.Techs).Kind, p.Name)
	}
}

func TestStringListRoundTrip(t *testing.T) {
	v, err := StringList{"React", "Go"}.Value()
	require.NoError(t, err)

	var l StringList
	require.NoError(t, l.Scan(v))
	assert.Equal(t, StringList{"React", "Go"}, l)

	require.NoError(t, l.Scan([]byte(`["a"]`)))
	assert.Equal(t, StringList{"a"}, l)
	assert.Error(t, l.Scan(12))
}

func TestUpstreamMessage(t *testing.T) {
	err := fmt.Errorf("%w: The model is overloaded.", ErrUpstream)
	assert.Equal(t, "The model is overloaded.", UpstreamMessage(err))

	wrapped := fmt.Errorf("synthesizing: %w", err)
	assert.Equal(t, "The model is overloaded.", UpstreamMessage(wrapped))

	assert.Equal(t, "boom", UpstreamMessage(errors.New("boom")))
}
