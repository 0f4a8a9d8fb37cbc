package timeparser

import "strings"

type unit struct {
	letter  rune
	seconds int64
}

// units is read-only after init.
var units = [...]unit{
	{'d', 24 * 60 * 60},
	{'h', 60 * 60},
	{'m', 60},
	{'s', 1},
}

func lookupUnit(r rune) (int64, bool) {
	for _, u := range units {
		if u.letter == r {
			return u.seconds, true
		}
	}
	return 0, false
}

// Units returns the supported unit letters, largest first.
func Units() []rune {
	letters := make([]rune, len(units))
	for i, u := range units {
		letters[i] = u.letter
	}
	return letters
}

func supportedUnits() string {
	quoted := make([]string, len(units))
	for i, u := range units {
		quoted[i] = "'" + string(u.letter) + "'"
	}
	return strings.Join(quoted, ", ")
}
