package host

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachship(source MachshipInputs) (*Machship, *[]map[string]any, *bytes.Buffer) {
	var buf bytes.Buffer
	var published []map[string]any

	m := NewMachship(&buf, source)
	m.setOutputs = func(outputs map[string]any) {
		published = append(published, outputs)
	}
	return m, &published, &buf
}

func TestMachship_GetInput(t *testing.T) {
	tests := []struct {
		name     string
		inline   string
		expected string
	}{
		{name: "string", inline: "who-to-greet: Mona", expected: "Mona"},
		{name: "quoted", inline: `who-to-greet: "Mona the Octocat"`, expected: "Mona the Octocat"},
		{name: "missing", inline: "other: x", expected: ""},
		{name: "no inputs", inline: "", expected: ""},
		{name: "null document", inline: "~", expected: ""},
		{name: "null value", inline: "who-to-greet: null", expected: ""},
		{name: "number", inline: "who-to-greet: 42", expected: "42"},
		{name: "bool", inline: "who-to-greet: true", expected: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestMachship(MachshipInputs{Inline: tt.inline})
			value, err := m.GetInput("who-to-greet")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestMachship_GetInput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("who-to-greet: From File\n"), 0o600))

	m, _, _ := newTestMachship(MachshipInputs{File: path})
	value, err := m.GetInput("who-to-greet")
	require.NoError(t, err)
	assert.Equal(t, "From File", value)
}

func TestMachship_GetInput_InlineWins(t *testing.T) {
	m, _, _ := newTestMachship(MachshipInputs{Inline: "who-to-greet: inline", File: "/does/not/exist.yaml"})
	value, err := m.GetInput("who-to-greet")
	require.NoError(t, err)
	assert.Equal(t, "inline", value)
}

func TestMachship_GetInput_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   MachshipInputs
		expected string
	}{
		{name: "malformed yaml", source: MachshipInputs{Inline: "who-to-greet: [unclosed"}, expected: "failed to parse inputs"},
		{name: "not a mapping", source: MachshipInputs{Inline: "just a string"}, expected: "failed to parse inputs"},
		{name: "missing file", source: MachshipInputs{File: filepath.Join(t.TempDir(), "missing.yaml")}, expected: "failed to read inputs file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestMachship(tt.source)

			_, err := m.GetInput("who-to-greet")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)

			_, err = m.EventPayload()
			assert.Error(t, err)
		})
	}
}

func TestMachship_EventPayload(t *testing.T) {
	m, _, _ := newTestMachship(MachshipInputs{Inline: "who-to-greet: Mona\nevent:\n  action: created\n"})

	name, err := m.GetInput("who-to-greet")
	require.NoError(t, err)
	assert.Equal(t, "Mona", name)

	payload, err := m.EventPayload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"action": "created"}, payload)
}

func TestMachship_EventPayload_NotObject(t *testing.T) {
	m, _, _ := newTestMachship(MachshipInputs{Inline: "event: push"})

	payload, err := m.EventPayload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, payload)
}

func TestMachship_SetOutput(t *testing.T) {
	m, published, _ := newTestMachship(MachshipInputs{})

	require.NoError(t, m.SetOutput("time", "03:04:05 GMT+0000 (UTC)"))
	assert.Equal(t, []map[string]any{{"time": "03:04:05 GMT+0000 (UTC)"}}, *published)
}

func TestMachship_SetFailed(t *testing.T) {
	m, _, buf := newTestMachship(MachshipInputs{})

	m.SetFailed("boom")
	assert.Equal(t, "error: boom\n", buf.String())
}
