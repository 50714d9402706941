package dump

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arnavsurve/kompas/internal/compiler/scope"
	"github.com/arnavsurve/kompas/internal/compiler/symbols"
)

// Snapshot is the serializable form of the symbol tables.
type Snapshot struct {
	RunID   string               `yaml:"run_id,omitempty"`
	Program string               `yaml:"program"`
	Tab     []symbols.TabEntry   `yaml:"tab"`
	Btab    []symbols.BlockEntry `yaml:"btab"`
	Atab    []symbols.ArrayEntry `yaml:"atab"`
}

func NewSnapshot(t *scope.Tables, runID string) Snapshot {
	s := Snapshot{
		RunID: runID,
		Tab:   t.Tab,
		Btab:  t.Btab,
		Atab:  t.Atab,
	}
	if len(t.Tab) > 0 {
		s.Program = t.Tab[0].Name
	}
	if s.Atab == nil {
		s.Atab = []symbols.ArrayEntry{}
	}
	return s
}

// WriteYAML writes a snapshot of t to w.
func WriteYAML(w io.Writer, t *scope.Tables, runID string) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewSnapshot(t, runID)); err != nil {
		return fmt.Errorf("failed to encode tables: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a snapshot written by WriteYAML.
func ReadYAML(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode tables: %w", err)
	}
	return s, nil
}
