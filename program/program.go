// Package program preprocesses the extended-QASM source into an indexed
// instruction graph: successor links, data dependencies, call-substitution
// maps and register/variable tables, ready for the execution engine to
// step over.
package program

// FunctionDef records one `gate` definition's shape: its declared
// parameters and where its body and RETURN live in the flat instruction
// array.
type FunctionDef struct {
	Name        string
	Params      []string
	HeaderIndex int
	BodyStart   int
	ReturnIndex int
}

// Program is the fully preprocessed form of one source file: every
// instruction, flattened across all gate bodies, plus the register table
// and function metadata needed to resolve calls and scoping.
type Program struct {
	Source          string
	Instructions    []*Instruction
	Registers       *RegisterTable
	Functions       map[string]*FunctionDef
	FunctionCallers map[string][]int // function name -> indices of CALL instructions targeting it
}

// Count returns the total number of instructions.
func (p *Program) Count() int {
	return len(p.Instructions)
}

// InstructionAt returns the instruction at index i, or false if out of
// range.
func (p *Program) InstructionAt(i int) (*Instruction, bool) {
	if i < 0 || i >= len(p.Instructions) {
		return nil, false
	}
	return p.Instructions[i], true
}

// PositionTrimmed returns instruction i's raw byte range with leading and
// trailing whitespace trimmed from both ends.
func (p *Program) PositionTrimmed(i int) (Position, bool) {
	in, ok := p.InstructionAt(i)
	if !ok {
		return Position{}, false
	}
	start, end := in.Pos.Start, in.Pos.End
	for start < end && isSpace(p.Source[start]) {
		start++
	}
	for end > start && isSpace(p.Source[end-1]) {
		end--
	}
	return Position{Start: start, End: end}, true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// EnclosingInstruction maps a raw byte offset to the smallest instruction
// whose range contains it, descending into a gate definition's body when
// the offset falls inside one (used by set-breakpoint).
func (p *Program) EnclosingInstruction(offset int) (int, bool) {
	best := -1
	bestLen := -1
	for i, in := range p.Instructions {
		if offset >= in.Pos.Start && offset <= in.Pos.End {
			length := in.Pos.End - in.Pos.Start
			if best < 0 || length < bestLen {
				best = i
				bestLen = length
			}
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
