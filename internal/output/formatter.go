// Package output renders simulation results as console text, CSV, JSON,
// MessagePack or PDF.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rgehrsitz/rothsim/internal/domain"
)

// Formatter renders a simulation result
type Formatter interface {
	Name() string
	Format(res *domain.SimulationResult) ([]byte, error)
}

// FormatterFunc adapts a function to Formatter
type FormatterFunc struct {
	ID string
	F  func(res *domain.SimulationResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(res *domain.SimulationResult) ([]byte, error) {
	return f.F(res)
}

var registry = map[string]Formatter{}

func register(f Formatter) {
	registry[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(CSVFormatter{})
	register(LedgerCSVFormatter{})
	register(JSONFormatter{Indent: true})
	register(MsgpackFormatter{})
	register(PDFFormatter{})
}

// Get looks up a formatter by name
func Get(name string) (Formatter, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names lists the registered formats alphabetically
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsBinary reports whether a format should not be written to a terminal
func IsBinary(name string) bool {
	return name == "pdf" || name == "msgpack"
}

// Write renders res to w
func Write(w io.Writer, f Formatter, res *domain.SimulationResult) error {
	data, err := f.Format(res)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFile renders res into path
func WriteFile(path string, f Formatter, res *domain.SimulationResult) error {
	data, err := f.Format(res)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	return os.WriteFile(path, data, 0644)
}
