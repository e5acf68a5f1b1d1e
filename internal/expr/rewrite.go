package expr

import (
	"regexp"
)

const DefaultMaxIterations = 64

// Rule replaces every match of Pattern with Replacement, which may refer to
// capture groups as in regexp.Regexp.Expand.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

func rule(pattern, replacement string) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

// DefaultRules rewrites the physics notation into calls. Order matters: the
// subscript expansions must run before the rule that turns ecc_{m,n}(tt) into
// a call.
func DefaultRules() []Rule {
	return []Rule{
		rule(`\s+`, ""),

		rule(`\(e\)`, "(ed)"),
		rule(`\(s\)`, "(sd)"),

		// ecc_{m,n}(ed) is the r^m weighted n-th harmonic eccentricity
		rule(`eccentricity_`, "ecc_"),
		rule(`(^|[^A-Za-z_])e_`, "${1}ecc_"),
		rule(`ecc_(\d+)`, "ecc_{$1}"),
		rule(`ecc_\{(\d+)\}`, "ecc_{$1,$1}"),
		rule(`ecc_\{(\d+),(\d+)\}\((\w\w)\)`, `ecc("$3",$1,$2)`),

		// {r^m}(ed) is the r^m average, [r^m](ed) the bare integral
		rule(`\{R\^`, "{r^"),
		rule(`\{r\^(\d+)\}\((\w\w)\)`, `(rint("$2",$1)/rint("$2",0))`),
		rule(`\[R\^`, "[r^"),
		rule(`\[r\^(\d+)\]\((\w\w)\)`, `rint("$2",$1)`),

		// V_n(pion) unless a species call follows, as in V_n(pi)(pion)
		rule(`V_(\d+)\(([A-Za-z_]\w*)\)($|[^(])`, `V("$2",$1)$3`),

		rule(`(^|[^d])N\(`, "${1}dN/dy("),
		rule(`dN\(`, "dN/dy("),
		rule(`dN/dy\(([A-Za-z_]\w*)\)`, `mult("$1")`),

		// V_n(pTs)(pion) is the differential flow at pTs
		rule(`V_(\d+)\((.*?)\)\(([A-Za-z_]\w*)\)`, `diffV("$3",$1,$2)`),

		rule(`dN/dpT`, "dN/(dydpT)"),
		rule(`dN/dydpT`, "dN/(dydpT)"),
		rule(`dN/\(dydpT\)\((.*?)\)\(([A-Za-z_]\w*)\)`, `spectrum("$2",$1)`),
	}
}

var leftoverNotation = regexp.MustCompile(`eccentricity_|ecc_|V_\d|dN|\{[rR]\^|\[[rR]\^`)

type Rewriter struct {
	rules         []Rule
	maxIterations int
}

func NewRewriter(rules []Rule, maxIterations int) *Rewriter {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Rewriter{rules: rules, maxIterations: maxIterations}
}

// Rewrite applies every rule in order, pass after pass, until a pass leaves
// the text unchanged. It returns the number of passes that changed the text.
func (r *Rewriter) Rewrite(notation string) (string, int, error) {
	current := notation
	for pass := 0; pass < r.maxIterations; pass++ {
		next := current
		for _, rl := range r.rules {
			next = rl.Pattern.ReplaceAllString(next, rl.Replacement)
		}
		if next == current {
			return current, pass, nil
		}
		current = next
	}
	return current, r.maxIterations, ErrRewriteCycle
}

// checkResolved reports the first domain symbol no rule consumed. String
// literals are not inspected.
func checkResolved(rewritten string) error {
	masked := maskStrings(rewritten)
	if loc := leftoverNotation.FindStringIndex(masked); loc != nil {
		return &NotationError{Expression: rewritten, Symbol: rewritten[loc[0]:loc[1]], Position: loc[0]}
	}
	return nil
}

func maskStrings(s string) string {
	b := []byte(s)
	var quote byte
	for i, ch := range b {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				b[i] = ' '
			}
		case ch == '"' || ch == '\'':
			quote = ch
		}
	}
	return string(b)
}
