// Package layout holds keyboard character tables and the substitution maps
// used to port lesson text from one layout to another.
package layout

import (
	"fmt"
	"unicode/utf8"
)

// Table lists the produceable characters of a layout, one string per keyboard
// row. Row 0 is the number/symbol row, rows 1-3 are the letter rows from top
// to bottom. Unshifted and shifted characters are interleaved.
type Table []string

// Len returns the total number of characters across all rows.
func (t Table) Len() int {
	n := 0
	for _, row := range t {
		n += utf8.RuneCountInString(row)
	}
	return n
}

// Charset returns the set of characters present in the table.
func (t Table) Charset() map[rune]struct{} {
	set := make(map[rune]struct{}, t.Len())
	for _, row := range t {
		for _, r := range row {
			set[r] = struct{}{}
		}
	}
	return set
}

// Built-in layout names.
const (
	Dvorak          = "Dvorak"
	Workman         = "Workman"
	WorkmanEL       = "Workman(EL)"
	ColemakDHISO    = "ColemakDH(ISO)"
	ColemakDHISOEL  = "ColemakDH(ISO,EL)"
	ColemakDHANSI   = "ColemakDH(ANSI)"
	ColemakDHANSIEL = "ColemakDH(ANSI,EL)"
)

var builtinOrder = []string{
	Dvorak,
	Workman,
	WorkmanEL,
	ColemakDHISO,
	ColemakDHISOEL,
	ColemakDHANSI,
	ColemakDHANSIEL,
}

var builtinTables = map[string]Table{
	Dvorak: {
		"7&8*9(0)[{]}",
		"'\",<.>pPyYfFgGcCrRlL/?=+",
		"aAoOeEuUiIdDhHtTnNsS-_",
		";:qQjJkKxXbBmMwWvVzZ",
	},
	Workman: {
		"7&8*9(0)-_=+",
		"qQdDrRwWbBjJfFuUpP;:[{]}",
		"aAsShHtTgGyYnNeEoOiI'\"",
		"zZxXmMcCvVkKlL,<.>/?",
	},
	WorkmanEL: {
		"7&8*9(0)-_=+",
		";:δΔρΡςΣβΒξΞφΦθΘπΠ;:[{]}",
		"αΑσΣηΗτΤγΓυΥνΝεΕοΟιΙ'\"",
		"ζΖχΧμΜψΨωΩκΚλΛ,<.>/?",
	},
	ColemakDHISO: {
		"-_7&8*9(0)=+",
		"qQwWfFpPbBjJlLuUyY;:[{]}",
		"aArRsStTgGmMnNeEiIoO'\"",
		"zZxXcCdDvVkKhH,<.>/?",
	},
	ColemakDHISOEL: {
		"-_7&8*9(0)=+",
		";:ςΣφΦπΠβΒξΞλΛθΘυΥ;:[{]}",
		"αΑρΡσΣτΤγΓμΜνΝεΕιΙοΟ'\"",
		"ζΖχΧψΨδΔωΩκΚηΗ,<.>/?",
	},
	ColemakDHANSI: {
		"-_7&8*9(0)=+",
		"qQwWfFpPbBjJlLuUyY;:[{]}",
		"aArRsStTgGmMnNeEiIoO'\"",
		"xXcCdDvVzZkKhH,<.>/?",
	},
	ColemakDHANSIEL: {
		"-_7&8*9(0)=+",
		";:ςΣφΦπΠβΒξΞλΛθΘυΥ;:[{]}",
		"αΑρΡσΣτΤγΓμΜνΝεΕιΙοΟ'\"",
		"χΧψΨδΔωΩζΖκΚηΗ,<.>/?",
	},
}

// Names returns the built-in layout names in their canonical order.
func Names() []string {
	return append([]string(nil), builtinOrder...)
}

// Lookup returns a copy of the built-in table for the named layout.
func Lookup(name string) (Table, error) {
	table, ok := builtinTables[name]
	if !ok {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("unknown layout %q", name)}
	}
	return append(Table(nil), table...), nil
}
