package model

import (
	"sort"
	"strings"
)

// Fault is a canonical robot fault reported by scouts.
type Fault int

const (
	FaultOther Fault = iota
	FaultDidNotParticipate
	FaultAutoStop
	FaultEmergencyStop
	FaultRobotUnresponsive
)

var faultNames = map[Fault]string{
	FaultDidNotParticipate: "Did not participate",
	FaultAutoStop:          "Auto Stop",
	FaultEmergencyStop:     "Emergency Stop",
	FaultRobotUnresponsive: "Robot Unresponsive",
}

// faultKeys maps a normalised spelling to its canonical fault.
var faultKeys = map[string]Fault{
	"didnotparticipate": FaultDidNotParticipate,
	"dnp":               FaultDidNotParticipate,
	"autostop":          FaultAutoStop,
	"emergencystop":     FaultEmergencyStop,
	"estop":             FaultEmergencyStop,
	"robotunresponsive": FaultRobotUnresponsive,
	"unresponsive":      FaultRobotUnresponsive,
}

func (f Fault) String() string {
	if n, ok := faultNames[f]; ok {
		return n
	}
	return "Other"
}

// Fatal reports whether the fault invalidates a match for teleop profiling.
func (f Fault) Fatal() bool {
	return f == FaultEmergencyStop || f == FaultRobotUnresponsive
}

func normaliseFault(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseFault maps a scouted fault name to its canonical value. Case, spaces,
// dashes and underscores are ignored. Unknown names map to FaultOther.
func ParseFault(name string) Fault {
	if f, ok := faultKeys[normaliseFault(name)]; ok {
		return f
	}
	return FaultOther
}

// FaultSet is the set of faults flagged for one match. Known faults are
// stored canonically; unknown names are kept verbatim for display.
type FaultSet struct {
	known map[Fault]struct{}
	other []string
}

// NewFaultSet builds a FaultSet from the raw name to flag map recorded by
// scouts. Only names flagged true are kept.
func NewFaultSet(raw map[string]bool) FaultSet {
	var fs FaultSet
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if raw[name] {
			fs = fs.withName(name)
		}
	}
	return fs
}

// FaultsOf builds a FaultSet from canonical faults.
func FaultsOf(faults ...Fault) FaultSet {
	var fs FaultSet
	for _, f := range faults {
		if f == FaultOther {
			continue
		}
		if fs.known == nil {
			fs.known = make(map[Fault]struct{})
		}
		fs.known[f] = struct{}{}
	}
	return fs
}

func (fs FaultSet) withName(name string) FaultSet {
	f := ParseFault(name)
	if f == FaultOther {
		for _, o := range fs.other {
			if o == name {
				return fs
			}
		}
		fs.other = append(fs.other, name)
		return fs
	}
	if fs.known == nil {
		fs.known = make(map[Fault]struct{})
	}
	fs.known[f] = struct{}{}
	return fs
}

// Has reports whether the canonical fault is flagged.
func (fs FaultSet) Has(f Fault) bool {
	_, ok := fs.known[f]
	return ok
}

// Fatal reports whether any fatal fault is flagged.
func (fs FaultSet) Fatal() bool {
	for f := range fs.known {
		if f.Fatal() {
			return true
		}
	}
	return false
}

// Empty reports whether no fault at all is flagged.
func (fs FaultSet) Empty() bool { return len(fs.known) == 0 && len(fs.other) == 0 }

// Names returns canonical names of known faults followed by unknown names,
// both in a stable order.
func (fs FaultSet) Names() []string {
	known := make([]Fault, 0, len(fs.known))
	for f := range fs.known {
		known = append(known, f)
	}
	sort.Slice(known, func(i, j int) bool { return known[i] < known[j] })
	names := make([]string, 0, len(known)+len(fs.other))
	for _, f := range known {
		names = append(names, f.String())
	}
	return append(names, fs.other...)
}
