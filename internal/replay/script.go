// Package replay runs scripted edit sessions against a file without a terminal.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a list of steps decoded from YAML:
//
//	steps:
//	  - move: {line: 1, col: 2}
//	  - type: section
//	  - delete: 3
//	  - backspace: 1
//	  - newline: true
//	  - command: tagsync off
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one action. Exactly one field must be set.
type Step struct {
	Move      *Move  `yaml:"move,omitempty"`
	Type      string `yaml:"type,omitempty"`
	Backspace int    `yaml:"backspace,omitempty"`
	Delete    int    `yaml:"delete,omitempty"`
	Newline   bool   `yaml:"newline,omitempty"`
	Command   string `yaml:"command,omitempty"`
}

// Move places the cursor. Line and Col are 1-based, as shown in the status bar.
type Move struct {
	Line int `yaml:"line"`
	Col  int `yaml:"col"`
}

// Kind names the action a step performs.
func (s Step) Kind() string {
	switch {
	case s.Move != nil:
		return "move"
	case s.Type != "":
		return "type"
	case s.Backspace != 0:
		return "backspace"
	case s.Delete != 0:
		return "delete"
	case s.Newline:
		return "newline"
	case s.Command != "":
		return "command"
	}
	return ""
}

func (s Step) validate() error {
	set := 0
	for _, ok := range []bool{s.Move != nil, s.Type != "", s.Backspace != 0, s.Delete != 0, s.Newline, s.Command != ""} {
		if ok {
			set++
		}
	}
	switch {
	case set == 0:
		return errors.New("empty step")
	case set > 1:
		return errors.New("a step must have exactly one action")
	case s.Backspace < 0 || s.Delete < 0:
		return errors.New("counts must be positive")
	case s.Move != nil && (s.Move.Line < 1 || s.Move.Col < 1):
		return fmt.Errorf("move: line and col start at 1, got %d:%d", s.Move.Line, s.Move.Col)
	}
	return nil
}

// Parse decodes and validates a script. Unknown keys are errors.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var script Script
	if err := dec.Decode(&script); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, step := range script.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &script, nil
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	script, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return script, nil
}
