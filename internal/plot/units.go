package plot

import "strings"

// unitBySubstring maps signal-name fragments to display units. Matching is a
// case-insensitive substring check evaluated in order, so broader fragments
// like "batt" behave the same as in earlier releases.
var unitBySubstring = []struct {
	fragment string
	unit     string
}{
	{"mv", "V"},
	{"volt", "V"},
	{"batt", "V"},
	{"speed", "km/h"},
	{"pressure", "bar"},
}

// UnitFor returns the display unit for a signal name, or "" when no
// fragment of the name matches the unit table.
func UnitFor(signal string) string {
	lower := strings.ToLower(signal)
	for _, e := range unitBySubstring {
		if strings.Contains(lower, e.fragment) {
			return e.unit
		}
	}
	return ""
}

// SignalMeta carries a friendly display name and native unit for a known
// measurement channel.
type SignalMeta struct {
	Label string
	Unit  string
}

var signalMeta = map[string]SignalMeta{
	"Eng_nEng10ms":    {Label: "Engine Speed", Unit: "rpm"},
	"Eng_uBatt":       {Label: "Battery Voltage", Unit: "mV"},
	"FuSHp_pRailBnk1": {Label: "Fuel Pressure", Unit: "MPa"},
}

// LabelAndUnit returns the friendly label and unit for a signal. Unknown
// signals keep their raw name and an empty unit.
func LabelAndUnit(signal string) (string, string) {
	if m, ok := signalMeta[signal]; ok {
		return m.Label, m.Unit
	}
	return signal, ""
}

// DisplayScale maps a native unit to the unit actually shown on axes and a
// multiplicative scale for the values. Millivolt channels are shown in volts.
func DisplayScale(unit string) (string, float64) {
	if strings.EqualFold(unit, "mv") {
		return "V", 1e-3
	}
	return unit, 1.0
}

// AxisLabel formats "name [unit]", omitting the bracket when unit is empty.
func AxisLabel(name, unit string) string {
	if unit == "" {
		return name
	}
	return name + " [" + unit + "]"
}
