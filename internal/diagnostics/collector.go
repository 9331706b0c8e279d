package diagnostics

import (
	"errors"
	"strings"

	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

var (
	COMPILER_ERROR_FOUND = errors.New("compiler error found")
)

// Collector accumulates diagnostics across every stage of one compilation.
// It is not safe for concurrent use; parallel front-end work reports into
// per-file collectors that are merged afterwards.
type Collector struct {
	Diags []Diag
}

func New() *Collector {
	return &Collector{
		Diags: nil,
	}
}

func (collector *Collector) ReportAndSave(diag Diag) {
	collector.Diags = append(collector.Diags, diag)
}

func (collector *Collector) Report(kind Kind, pos token.Pos, format string, args ...any) {
	collector.ReportAndSave(NewDiag(kind, pos, format, args...))
}

func (collector *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}
	collector.Diags = append(collector.Diags, other.Diags...)
}

func (collector *Collector) HasErrors() bool {
	return len(collector.Diags) > 0
}

// Count returns how many diagnostics of the given kind were reported.
func (collector *Collector) Count(kind Kind) int {
	n := 0
	for _, d := range collector.Diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Err returns nil when nothing was reported, otherwise the ordered list of
// diagnostics as a single error value.
func (collector *Collector) Err() error {
	if len(collector.Diags) == 0 {
		return nil
	}
	list := make(List, len(collector.Diags))
	copy(list, collector.Diags)
	return list
}

// List is the terminal result of a failed compilation.
type List []Diag

func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, d := range l {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

func (l List) Is(target error) bool {
	return target == COMPILER_ERROR_FOUND
}
