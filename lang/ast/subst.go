package ast

// SubstKind identifies a parameter substitution operator.
type SubstKind int

const (
	SubstLen                  SubstKind = iota // ${#V}
	SubstSubstring                             // ${V:OFF:LEN}
	SubstReplace                               // ${V/PAT/REPL}
	SubstReplaceAll                            // ${V//PAT/REPL}
	SubstDefault                               // ${V-W} ${V:-W}
	SubstAlternative                           // ${V+W} ${V:+W}
	SubstErrorIfUnset                          // ${V?W} ${V:?W}
	SubstRemoveSmallestPrefix                  // ${V#PAT}
	SubstRemoveLargestPrefix                   // ${V##PAT}
	SubstRemoveSmallestSuffix                  // ${V%PAT}
	SubstRemoveLargestSuffix                   // ${V%%PAT}
	SubstLowercase                             // ${V,PAT} ${V,,PAT}
	SubstUppercase                             // ${V^PAT} ${V^^PAT}
	SubstAssign                                // ${V=W} ${V:=W}
	SubstArith                                 // $((EXPR))
	SubstCommand                               // $(CMD) `CMD`
)

var substNames = [...]string{
	SubstLen:                  "length",
	SubstSubstring:            "substring",
	SubstReplace:              "replace",
	SubstReplaceAll:           "replace all",
	SubstDefault:              "default",
	SubstAlternative:          "alternative",
	SubstErrorIfUnset:         "error if unset",
	SubstRemoveSmallestPrefix: "remove smallest prefix",
	SubstRemoveLargestPrefix:  "remove largest prefix",
	SubstRemoveSmallestSuffix: "remove smallest suffix",
	SubstRemoveLargestSuffix:  "remove largest suffix",
	SubstLowercase:            "lowercase",
	SubstUppercase:            "uppercase",
	SubstAssign:               "assign",
	SubstArith:                "arithmetic",
	SubstCommand:              "command",
}

func (k SubstKind) String() string {
	if k >= 0 && int(k) < len(substNames) {
		return substNames[k]
	}

	return "unknown"
}

// Subst is a parameter substitution.
//
// Colon records the colon form of the default, alternative, error and assign
// operators, which also treat an empty value as unset. All records the
// doubled form of the case operators (,, and ^^). Operand is nil when the
// operator was written without one. Text holds the source of arithmetic and
// command substitutions, which have no Param.
type Subst struct {
	Param   Parameter
	Operand ComplexWord
	Text    string
	Kind    SubstKind
	Colon   bool
	All     bool
}
