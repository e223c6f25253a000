package domain

import (
	"fmt"
	"strings"
)

// RuleKey is the fingerprint of a rule's transitive structural state.
type RuleKey struct {
	Hash HashCode
	// Trace lists the fields folded into Hash when tracing was requested.
	Trace []RuleKeyField
}

// RuleKeyField is one (field, value) pair folded into a rule key.
type RuleKeyField struct {
	Name  string
	Value string
}

// String returns the hex digest.
func (k RuleKey) String() string {
	return k.Hash.String()
}

// Equal compares keys by digest only.
func (k RuleKey) Equal(other RuleKey) bool {
	return k.Hash == other.Hash
}

// IsZero reports whether the key was never computed.
func (k RuleKey) IsZero() bool {
	return k.Hash.IsZero()
}

// Explain renders the trace one field per line.
func (k RuleKey) Explain() string {
	var b strings.Builder
	for _, f := range k.Trace {
		fmt.Fprintf(&b, "%s=%s\n", f.Name, f.Value)
	}
	return b.String()
}

// RuleKeyAndInputs is a key together with the dependency-file covered inputs it relates to.
type RuleKeyAndInputs struct {
	Key    RuleKey
	Inputs []SourcePath
}
