package hexrule

import (
	"math/bits"
	"strconv"
	"strings"
)

// Symbol is a per-cell value of the compiled automaton.
type Symbol int

// SymbolSet is a fixed-capacity bitset over [0, n).
type SymbolSet struct {
	n     int
	words []uint64
}

// NewSymbolSet returns an empty set over an alphabet of n symbols.
func NewSymbolSet(n int) SymbolSet {
	return SymbolSet{n: n, words: make([]uint64, (n+63)/64)}
}

// FullSet returns the set of every symbol in [0, n).
func FullSet(n int) SymbolSet {
	s := NewSymbolSet(n)
	for v := 0; v < n; v++ {
		s.Add(Symbol(v))
	}
	return s
}

// SetOf builds a set from explicit members.
func SetOf(n int, members ...Symbol) SymbolSet {
	s := NewSymbolSet(n)
	for _, m := range members {
		s.Add(m)
	}
	return s
}

// Add inserts v. Symbols outside the alphabet are ignored.
func (s SymbolSet) Add(v Symbol) {
	if v < 0 || int(v) >= s.n {
		return
	}
	s.words[v>>6] |= 1 << (uint(v) & 63)
}

// Has reports membership.
func (s SymbolSet) Has(v Symbol) bool {
	if v < 0 || int(v) >= s.n {
		return false
	}
	return s.words[v>>6]&(1<<(uint(v)&63)) != 0
}

// Len returns the number of members.
func (s SymbolSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Empty reports whether the set has no members.
func (s SymbolSet) Empty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Full reports whether every symbol of the alphabet is a member.
func (s SymbolSet) Full() bool { return s.Len() == s.n }

// Intersects reports whether the two sets share a member.
func (s SymbolSet) Intersects(o SymbolSet) bool {
	for i := range s.words {
		if i < len(o.words) && s.words[i]&o.words[i] != 0 {
			return true
		}
	}
	return false
}

// Union adds every member of o to s.
func (s SymbolSet) Union(o SymbolSet) {
	for i := range s.words {
		if i < len(o.words) {
			s.words[i] |= o.words[i]
		}
	}
}

// Equal reports whether both sets have the same capacity and members.
func (s SymbolSet) Equal(o SymbolSet) bool {
	if s.n != o.n {
		return false
	}
	for i := range s.words {
		if s.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Symbols lists the members in ascending order.
func (s SymbolSet) Symbols() []Symbol {
	out := make([]Symbol, 0, s.Len())
	for i, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, Symbol(i*64+b))
			w &= w - 1
		}
	}
	return out
}

func (s SymbolSet) String() string {
	syms := s.Symbols()
	parts := make([]string, len(syms))
	for i, v := range syms {
		parts[i] = strconv.Itoa(int(v))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
