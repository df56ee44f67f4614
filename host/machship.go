package host

import (
	"fmt"
	"io"
	"os"

	stepio "github.com/machship/step-essentials/io"
	"gopkg.in/yaml.v3"
)

// eventKey is the input carrying the triggering event under the Machship
// runner.
const eventKey = "event"

// MachshipInputs locates the step's YAML inputs. Inline takes precedence
// over File; with neither set the step runs with no inputs.
type MachshipInputs struct {
	Inline string
	File   string
}

// Machship runs the step under the Machship step runner. Inputs are decoded
// once from the YAML document given on the command line and cached; outputs
// are published through step-essentials.
type Machship struct {
	w          io.Writer
	source     MachshipInputs
	readFile   func(string) ([]byte, error)
	setOutputs func(map[string]any)
	inputs     map[string]any
}

func NewMachship(w io.Writer, source MachshipInputs) *Machship {
	return &Machship{
		w:          w,
		source:     source,
		readFile:   os.ReadFile,
		setOutputs: func(outputs map[string]any) { stepio.SetOutputs(outputs) },
	}
}

func (m *Machship) load() (map[string]any, error) {
	if m.inputs != nil {
		return m.inputs, nil
	}

	data := []byte(m.source.Inline)
	if m.source.Inline == "" && m.source.File != "" {
		var err error
		data, err = m.readFile(m.source.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read inputs file: %w", err)
		}
	}

	inputs := map[string]any{}
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse inputs: %w", err)
	}
	if inputs == nil {
		inputs = map[string]any{}
	}

	m.inputs = inputs
	return m.inputs, nil
}

func (m *Machship) GetInput(name string) (string, error) {
	inputs, err := m.load()
	if err != nil {
		return "", err
	}

	value, ok := inputs[name]
	if !ok || value == nil {
		return "", nil
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return fmt.Sprint(value), nil
}

func (m *Machship) EventPayload() (map[string]any, error) {
	inputs, err := m.load()
	if err != nil {
		return nil, err
	}

	event, ok := inputs[eventKey].(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return event, nil
}

func (m *Machship) SetOutput(name, value string) error {
	m.setOutputs(map[string]any{
		name: value,
	})
	return nil
}

func (m *Machship) SetFailed(message string) {
	fmt.Fprintf(m.w, "error: %s\n", message)
}
