package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Two variables: a is global (appears shifted in Trans), x is a free aux
// input that never crosses timeframes.
func TestGlobalAndProtectedVariables(t *testing.T) {
	const (
		a Variable = iota
		x
	)
	p := &Problem{
		Variables: 2,
		Init:      Clauses{{Neg(a)}},
		Trans:     Clauses{{Neg(a), Pos(x)}, {Pos(a).Shift(1)}},
		Target:    Clauses{{Pos(a)}},
	}

	global := GlobalVariables(p)
	assert.True(t, global.Has(a))
	assert.False(t, global.Has(x))

	protected := ProtectedVariables(p, global)
	assert.True(t, protected.Has(a), "global variables are always protected")
	assert.False(t, protected.Has(x), "x never cross-appears between sections")
}

func TestProtectedVariableCrossingInitAndTarget(t *testing.T) {
	const v Variable = 0
	p := &Problem{
		Variables: 1,
		Init:      Clauses{{Pos(v)}},
		Target:    Clauses{{Pos(v)}},
	}
	global := GlobalVariables(p)
	protected := ProtectedVariables(p, global)
	assert.True(t, protected.Has(v))
}
