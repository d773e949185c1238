package chartspec

import (
	"encoding/json"
	"fmt"
	"os"
)

// Mark kinds understood by the embedder.
const (
	MarkLine = "line"
	MarkMap  = "map"
	MarkBars = "bars"
)

// Param is one named numeric input of a chart. The mediator only ever
// reads and writes the entry named "globalYear".
type Param struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Data describes where a chart reads its series from.
type Data struct {
	Source string `json:"source"`
	Field  string `json:"field,omitempty"`
}

// Spec is the wire format for a chart configuration document.
type Spec struct {
	Title  string  `json:"title"`
	Mark   string  `json:"mark"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Params []Param `json:"params,omitempty"`
	Data   Data    `json:"data"`
}

// Clone returns a structural deep copy. Callers may mutate the copy
// freely without affecting the receiver.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	c := *s
	if s.Params != nil {
		c.Params = make([]Param, len(s.Params))
		copy(c.Params, s.Params)
	}
	return &c
}

// Param returns the value of the named parameter.
func (s *Spec) Param(name string) (int, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return 0, false
}

// SetParam updates the named parameter in place, or prepends it when absent.
func (s *Spec) SetParam(name string, value int) {
	for i := range s.Params {
		if s.Params[i].Name == name {
			s.Params[i].Value = value
			return
		}
	}
	s.Params = append([]Param{{Name: name, Value: value}}, s.Params...)
}

func (s *Spec) validate() error {
	switch s.Mark {
	case MarkLine, MarkMap, MarkBars:
	default:
		return fmt.Errorf("unknown mark: %q", s.Mark)
	}
	if s.Data.Source == "" {
		return fmt.Errorf("spec %q has no data source", s.Title)
	}
	return nil
}

// Parse decodes and validates a JSON chart spec document.
func Parse(data []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode chart spec: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a chart spec document from a local file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
