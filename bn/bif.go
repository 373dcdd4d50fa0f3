package bn

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parse reads a network in the BIF text format. The supported subset is the
// one produced by Write and understood by the usual BIF readers: a network
// declaration, discrete variable blocks, and probability blocks in either
// the "table" form or the per-parent-assignment row form.
func Parse(r io.Reader) (*Network, error) {
	toks, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	p := &bifParser{toks: toks}
	net, err := p.parse()
	if err != nil {
		return nil, err
	}
	if err := net.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid network")
	}
	return net, nil
}

// tokenize splits the input into identifiers/numbers and the single-rune
// punctuation tokens of the BIF grammar. "//" line comments are skipped.
func tokenize(r io.Reader) ([]string, error) {
	var toks []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		start := -1
		for i, c := range line {
			switch c {
			case '{', '}', '(', ')', '[', ']', ',', ';', '|', '=':
				if start >= 0 {
					toks = append(toks, line[start:i])
					start = -1
				}
				toks = append(toks, string(c))
			case ' ', '\t':
				if start >= 0 {
					toks = append(toks, line[start:i])
					start = -1
				}
			default:
				if start < 0 {
					start = i
				}
			}
		}
		if start >= 0 {
			toks = append(toks, line[start:])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read BIF input")
	}
	return toks, nil
}

type bifParser struct {
	toks []string
	pos  int
}

func (p *bifParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *bifParser) next() (string, error) {
	if p.pos >= len(p.toks) {
		return "", errors.New("unexpected end of BIF input")
	}
	tok := p.toks[p.pos]
	p.pos++
	return tok, nil
}

func (p *bifParser) expect(want string) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok != want {
		return errors.Errorf("expected %q, got %q", want, tok)
	}
	return nil
}

// skipBlock consumes a balanced "{ ... }" block, the opening brace included.
func (p *bifParser) skipBlock() error {
	if err := p.expect("{"); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch tok {
		case "{":
			depth++
		case "}":
			depth--
		}
	}
	return nil
}

func (p *bifParser) parse() (*Network, error) {
	net := &Network{
		States:  make(map[string][]string),
		Parents: make(map[string][]string),
		Values:  make(map[string][]float64),
	}
	for p.pos < len(p.toks) {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok {
		case "network":
			name, err := p.next()
			if err != nil {
				return nil, err
			}
			net.Name = name
			if err := p.skipBlock(); err != nil {
				return nil, errors.Wrap(err, "could not parse network block")
			}
		case "variable":
			if err := p.parseVariable(net); err != nil {
				return nil, err
			}
		case "probability":
			if err := p.parseProbability(net); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Errorf("unexpected token %q at top level", tok)
		}
	}
	return net, nil
}

func (p *bifParser) parseVariable(net *Network) error {
	name, err := p.next()
	if err != nil {
		return err
	}
	if _, dup := net.States[name]; dup {
		return errors.Errorf("variable %q declared twice", name)
	}
	if err := p.expect("{"); err != nil {
		return err
	}
	var states []string
	for {
		tok, err := p.next()
		if err != nil {
			return errors.Wrapf(err, "in variable %q", name)
		}
		if tok == "}" {
			break
		}
		if tok != "type" {
			// property or other declaration, skip to its terminator
			if err := p.skipStatement(tok); err != nil {
				return errors.Wrapf(err, "in variable %q", name)
			}
			continue
		}
		if err := p.expect("discrete"); err != nil {
			return errors.Wrapf(err, "in variable %q", name)
		}
		if err := p.expect("["); err != nil {
			return err
		}
		cardTok, err := p.next()
		if err != nil {
			return err
		}
		card, err := strconv.Atoi(cardTok)
		if err != nil {
			return errors.Errorf("invalid cardinality %q for variable %q", cardTok, name)
		}
		if err := p.expect("]"); err != nil {
			return err
		}
		if err := p.expect("{"); err != nil {
			return err
		}
		states, err = p.parseList("}")
		if err != nil {
			return errors.Wrapf(err, "in variable %q", name)
		}
		if len(states) != card {
			return errors.Errorf("variable %q declares %d states but lists %d", name, card, len(states))
		}
		if err := p.expect(";"); err != nil {
			return err
		}
	}
	if states == nil {
		return errors.Errorf("variable %q has no type declaration", name)
	}
	net.Variables = append(net.Variables, name)
	net.States[name] = states
	return nil
}

// skipStatement consumes tokens up to and including the next ";", or a
// balanced block if the statement opens one.
func (p *bifParser) skipStatement(first string) error {
	if first == "{" {
		p.pos--
		return p.skipBlock()
	}
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		if tok == ";" {
			return nil
		}
	}
}

// parseList reads a comma-separated list of tokens up to the given closing
// token, which is consumed.
func (p *bifParser) parseList(end string) ([]string, error) {
	var items []string
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok == end {
			return items, nil
		}
		if tok == "," {
			continue
		}
		items = append(items, tok)
	}
}

func (p *bifParser) parseProbability(net *Network) error {
	if err := p.expect("("); err != nil {
		return err
	}
	child, err := p.next()
	if err != nil {
		return err
	}
	states, ok := net.States[child]
	if !ok {
		return errors.Errorf("probability block for undeclared variable %q", child)
	}
	var parents []string
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok == "|" {
		parents, err = p.parseList(")")
		if err != nil {
			return errors.Wrapf(err, "in probability block for %q", child)
		}
	} else if tok != ")" {
		return errors.Errorf("expected %q or %q, got %q", "|", ")", tok)
	}
	for _, par := range parents {
		if _, ok := net.States[par]; !ok {
			return errors.Errorf("probability block for %q references undeclared parent %q", child, par)
		}
	}
	if _, dup := net.Values[child]; dup {
		return errors.Errorf("duplicate probability block for %q", child)
	}
	if len(parents) > 0 {
		net.Parents[child] = parents
	}

	card := len(states)
	cols := 1
	for _, par := range parents {
		cols *= len(net.States[par])
	}
	values := make([]float64, card*cols)
	seen := make([]bool, cols)

	if err := p.expect("{"); err != nil {
		return err
	}
	for {
		tok, err := p.next()
		if err != nil {
			return errors.Wrapf(err, "in probability block for %q", child)
		}
		switch tok {
		case "}":
			for col, ok := range seen {
				if !ok {
					return errors.Errorf("probability block for %q misses row %d", child, col)
				}
			}
			net.Values[child] = values
			return nil
		case "table":
			row, err := p.parseFloats(";")
			if err != nil {
				return errors.Wrapf(err, "in table of %q", child)
			}
			if len(row) != card*cols {
				return errors.Errorf("table of %q has %d values, want %d", child, len(row), card*cols)
			}
			// the table form lists one full row per child state
			for i, v := range row {
				values[(i%cols)*card+i/cols] = v
			}
			for col := range seen {
				seen[col] = true
			}
		case "(":
			assignment, err := p.parseList(")")
			if err != nil {
				return errors.Wrapf(err, "in probability block for %q", child)
			}
			col, err := parentColumn(net, parents, assignment)
			if err != nil {
				return errors.Wrapf(err, "in probability block for %q", child)
			}
			row, err := p.parseFloats(";")
			if err != nil {
				return errors.Wrapf(err, "in probability block for %q", child)
			}
			if len(row) != card {
				return errors.Errorf("row for %q has %d values, want %d", child, len(row), card)
			}
			if seen[col] {
				return errors.Errorf("duplicate row in probability block for %q", child)
			}
			seen[col] = true
			copy(values[col*card:], row)
		default:
			return errors.Errorf("unexpected token %q in probability block for %q", tok, child)
		}
	}
}

func (p *bifParser) parseFloats(end string) ([]float64, error) {
	toks, err := p.parseList(end)
	if err != nil {
		return nil, err
	}
	floats := make([]float64, len(toks))
	for i, tok := range toks {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, errors.Errorf("invalid probability %q", tok)
		}
		floats[i] = f
	}
	return floats, nil
}

// parentColumn computes the row-major column index of a parent assignment,
// the first parent varying slowest.
func parentColumn(net *Network, parents, assignment []string) (int, error) {
	if len(assignment) != len(parents) {
		return 0, errors.Errorf("assignment %v has %d states, want %d", assignment, len(assignment), len(parents))
	}
	col := 0
	for i, par := range parents {
		idx := -1
		for k, s := range net.States[par] {
			if s == assignment[i] {
				idx = k
				break
			}
		}
		if idx < 0 {
			return 0, errors.Errorf("unknown state %q of parent %q", assignment[i], par)
		}
		col = col*len(net.States[par]) + idx
	}
	return col, nil
}
