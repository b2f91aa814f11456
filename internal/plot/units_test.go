package plot

import "testing"

func TestUnitFor(t *testing.T) {
	cases := []struct {
		signal string
		want   string
	}{
		{"batt_voltage", "V"},
		{"Eng_uBatt", "V"},
		{"supply_mV", "V"},
		{"wheel_speed", "km/h"},
		{"rail_pressure", "bar"},
		{"coolant_temp", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := UnitFor(c.signal); got != c.want {
			t.Errorf("UnitFor(%q)=%q want %q", c.signal, got, c.want)
		}
	}
}

func TestAxisLabel(t *testing.T) {
	if got := AxisLabel("batt_voltage", "V"); got != "batt_voltage [V]" {
		t.Errorf("got %q", got)
	}
	// No unit suffix for signals outside the unit table.
	if got := AxisLabel("coolant_temp", UnitFor("coolant_temp")); got != "coolant_temp" {
		t.Errorf("got %q", got)
	}
}

func TestLabelAndUnit(t *testing.T) {
	label, unit := LabelAndUnit("Eng_uBatt")
	if label != "Battery Voltage" || unit != "mV" {
		t.Errorf("got (%q,%q)", label, unit)
	}
	label, unit = LabelAndUnit("unknown_channel")
	if label != "unknown_channel" || unit != "" {
		t.Errorf("got (%q,%q)", label, unit)
	}
}

func TestDisplayScale(t *testing.T) {
	unit, scale := DisplayScale("mV")
	if unit != "V" || scale != 1e-3 {
		t.Errorf("mV: got (%q,%v)", unit, scale)
	}
	unit, scale = DisplayScale("rpm")
	if unit != "rpm" || scale != 1.0 {
		t.Errorf("rpm: got (%q,%v)", unit, scale)
	}
}
