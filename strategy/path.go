package strategy

import (
	"fmt"
	"strconv"
	"strings"
)

// Move is one committed automaton transition: the index of the
// chosen step and the name of the rule it applied.  The rule name is
// redundant for a fresh path but lets a stale one fail loudly when
// the strategy definition has changed underneath it.
type Move struct {
	Choice int    `json:"choice"`
	Rule   string `json:"rule"`
}

// Path is the recorded sequence of committed transitions.
//
// A Path has a canonical text encoding ("0.ruleA;2.ruleC") so it can
// be embedded in a request or response payload and replayed later.
// Rule names therefore must not contain ';'.
type Path []Move

// Encode renders the path in its canonical text form.
func (p Path) Encode() string {
	acc := make([]string, len(p))
	for i, m := range p {
		acc[i] = strconv.Itoa(m.Choice) + "." + m.Rule
	}
	return strings.Join(acc, ";")
}

func (p Path) String() string {
	return p.Encode()
}

// DecodePath parses the canonical text form.  Malformed input is an
// error, never a silently empty path.
func DecodePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, ";")
	acc := make(Path, len(parts))
	for i, part := range parts {
		dot := strings.Index(part, ".")
		if dot < 0 {
			return nil, fmt.Errorf(`path element %d ("%s") has no choice index`, i, part)
		}
		n, err := strconv.Atoi(part[:dot])
		if err != nil {
			return nil, fmt.Errorf(`path element %d ("%s"): %v`, i, part, err)
		}
		acc[i] = Move{Choice: n, Rule: part[dot+1:]}
	}
	return acc, nil
}
