package turmite

import (
	"errors"
	"strconv"
)

// node is either an integer leaf or a bracketed list.
type node struct {
	offset int
	isList bool
	value  int
	items  []node
	// overflow marks a well-formed integer that does not fit an int.
	overflow bool
	raw      string
}

type parser struct {
	src string
	pos int
}

// Parse reads a spec of the form {{{newColor,turn,newState},...},...}. Curly
// and square brackets are both accepted but must be matched pairwise.
// Whitespace is ignored.
func Parse(src string) (Spec, error) {
	p := &parser{src: src}
	p.skipSpace()
	root, err := p.parseValue()
	if err != nil {
		return Spec{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Spec{}, syntaxError(p.pos, "unexpected %q after table", p.src[p.pos])
	}
	actions, err := tableFromNode(root)
	if err != nil {
		return Spec{}, err
	}
	return New(actions)
}

// MustParse is like Parse but panics on error.
func MustParse(src string) Spec {
	s, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return s
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func closerFor(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ']'
}

func (p *parser) parseValue() (node, error) {
	if p.pos >= len(p.src) {
		return node{}, syntaxError(p.pos, "unexpected end of input")
	}
	switch ch := p.src[p.pos]; {
	case ch == '{' || ch == '[':
		return p.parseList()
	case ch == '-' || (ch >= '0' && ch <= '9'):
		return p.parseInt()
	default:
		return node{}, syntaxError(p.pos, "unexpected %q", ch)
	}
}

func (p *parser) parseList() (node, error) {
	n := node{offset: p.pos, isList: true}
	closer := closerFor(p.src[p.pos])
	p.pos++
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == closer {
		p.pos++
		return n, nil
	}
	for {
		p.skipSpace()
		item, err := p.parseValue()
		if err != nil {
			return node{}, err
		}
		n.items = append(n.items, item)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return node{}, syntaxError(p.pos, "unterminated list opened at offset %d", n.offset)
		}
		switch ch := p.src[p.pos]; ch {
		case ',':
			p.pos++
		case closer:
			p.pos++
			return n, nil
		default:
			return node{}, syntaxError(p.pos, "expected ',' or %q, got %q", closer, ch)
		}
	}
}

func (p *parser) parseInt() (node, error) {
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	digits := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == digits {
		return node{}, syntaxError(start, "expected digits")
	}
	v, err := strconv.Atoi(p.src[start:p.pos])
	if errors.Is(err, strconv.ErrRange) {
		return node{offset: start, overflow: true, raw: p.src[start:p.pos]}, nil
	}
	if err != nil {
		return node{}, syntaxError(start, "bad integer %q", p.src[start:p.pos])
	}
	return node{offset: start, value: v}, nil
}

var fieldNames = [3]string{"new color", "turn mask", "new state"}

// tableFromNode checks the three-level shape and converts it to actions.
// Row raggedness is left for New to report.
func tableFromNode(root node) ([][]Action, error) {
	if !root.isList {
		return nil, syntaxError(root.offset, "expected a list of states")
	}
	if len(root.items) == 0 {
		return nil, syntaxError(root.offset, "table has no states")
	}
	actions := make([][]Action, len(root.items))
	for s, row := range root.items {
		if !row.isList {
			return nil, syntaxError(row.offset, "state %d: expected a list of colors", s)
		}
		if len(row.items) == 0 {
			return nil, syntaxError(row.offset, "state %d has no colors", s)
		}
		actions[s] = make([]Action, len(row.items))
		for c, triple := range row.items {
			if !triple.isList || len(triple.items) != 3 {
				return nil, syntaxError(triple.offset, "state %d color %d: expected a triple", s, c)
			}
			for _, f := range triple.items {
				if f.isList {
					return nil, syntaxError(f.offset, "state %d color %d: triple fields must be integers", s, c)
				}
			}
			for i, f := range triple.items {
				if f.overflow {
					return nil, fieldError(s, c, "%s %s does not fit an int", fieldNames[i], f.raw)
				}
			}
			turn := triple.items[1].value
			if turn < 0 || turn > 255 {
				return nil, fieldError(s, c, "turn mask %d is not a nonzero combination of 1,2,4,8,16,32", turn)
			}
			actions[s][c] = Action{
				NewColor: triple.items[0].value,
				Turn:     TurnMask(turn),
				NewState: triple.items[2].value,
			}
		}
	}
	return actions, nil
}
