package remap

import "fmt"

// Profile is the human-editable form of a Table: physical slot name to output
// code name. Slots left out keep their identity mapping.
type Profile map[string]string

// Table resolves p against the identity table.
func (p Profile) Table() (Table, error) {
	t := Default()
	for slot, code := range p {
		s, err := ParseMapcode(slot)
		if err != nil {
			return t, &ConfigError{Slot: -1, Reason: fmt.Sprintf("unknown slot %q", slot)}
		}
		c, err := ParseMapcode(code)
		if err != nil {
			return t, &ConfigError{Slot: int(s), Reason: err.Error()}
		}
		t[s] = c
	}
	return t, nil
}

// TableProfile lists every slot of t.
func TableProfile(t Table) Profile {
	p := make(Profile, Slots)
	for i, c := range t {
		p[Mapcode(i).String()] = c.String()
	}
	return p
}

// Diff lists slots of t that differ from the identity table, in slot order.
func Diff(t Table) []string {
	var out []string
	for i, c := range t {
		if c != Mapcode(i) {
			out = append(out, fmt.Sprintf("%s -> %s", Mapcode(i), c))
		}
	}
	return out
}
