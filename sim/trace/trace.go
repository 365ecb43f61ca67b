package trace

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SimulationTrace collects records in emission order.
type SimulationTrace struct {
	Records []Record `yaml:"records"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace() *SimulationTrace {
	return &SimulationTrace{
		Records: make([]Record, 0),
	}
}

// Record appends a record.
func (st *SimulationTrace) Record(time int64, kind Kind, entity string, payload string) {
	st.Records = append(st.Records, Record{Time: time, Kind: kind, Entity: entity, Payload: payload})
}

// Recordf appends a record with a formatted payload.
func (st *SimulationTrace) Recordf(time int64, kind Kind, entity string, format string, args ...any) {
	st.Record(time, kind, entity, fmt.Sprintf(format, args...))
}

// Filter returns the records of the given kind, in order.
func (st *SimulationTrace) Filter(kind Kind) []Record {
	out := make([]Record, 0)
	for _, r := range st.Records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// ForEntity returns the records about one entity, in order.
func (st *SimulationTrace) ForEntity(entity string) []Record {
	out := make([]Record, 0)
	for _, r := range st.Records {
		if r.Entity == entity {
			out = append(out, r)
		}
	}
	return out
}

// WriteYAML serializes the trace.
func (st *SimulationTrace) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	return enc.Close()
}
