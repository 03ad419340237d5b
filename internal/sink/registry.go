package sink

import "fmt"

// Names of the sinks selectable from the CLI's "load <name>" verb, a
// build-time registry replacing the original's importlib dynamic module
// loading per the redesign notes.
const (
	NameSave       = "save"
	NameRun        = "run"
	NameSaveAndRun = "saveandrun"
	NameReject     = "reject"
	NamePC2Paper   = "pc2paper"
)

// Names lists every registered sink name, for --help/usage output.
var Names = []string{NameSave, NameRun, NameSaveAndRun, NameReject, NamePC2Paper}

// IsRegistered reports whether name is a known sink.
func IsRegistered(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// ErrUnknownSink is returned by the CLI when "load <name>" names a sink
// that isn't registered.
func ErrUnknownSink(name string) error {
	return fmt.Errorf("sink: unknown sink %q (known: %v)", name, Names)
}
