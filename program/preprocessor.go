package program

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/qasm-assert-debugger/assertion"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// rawStatement is one semicolon- or brace-terminated top-level statement,
// with its byte range in the original (comment-stripped, same-length)
// source.
type rawStatement struct {
	Text  string
	Start int
	End   int
}

// preprocessor holds the mutable state threaded through one Load call.
// Grounded on the teacher's Preprocessor (parser/preprocessor.go): a
// struct carrying the accumulated error list and a reset-per-load scope,
// generalized here to produce an instruction graph instead of an expanded
// token stream.
type preprocessor struct {
	program  *Program
	errors   *ErrorList
	gateSet  map[string]bool // names declared via `gate NAME ...` anywhere in the source
	pending  []pendingCall   // calls seen before their gate's FunctionDef existed
}

// pendingCall is a forward reference: a call to a name already known (via
// gateSet) to be a gate, but whose FunctionDef had not been built yet
// because processScope had not reached that "gate NAME ..." statement. It
// is resolved once the whole source has been walked and every FunctionDef
// exists, mirroring the original's post-pass successor/arity resolution
// (common/parsing/CodePreprocessing.cpp's final instruction loop).
type pendingCall struct {
	instr int
	name  string
	args  []string
	pos   Position
	text  string
}

// Load preprocesses source into a Program, or returns a non-nil error
// list on failure. This is the sole entry point for package program.
//
// A call may textually precede the definition of the gate it calls: such
// a call is recorded as pending, and its arity check and body entry point
// are resolved by resolvePendingCalls once every gate definition in the
// source has been processed.
func Load(source string) (*Program, *ErrorList) {
	p := &preprocessor{
		program: &Program{
			Source:          source,
			Registers:       NewRegisterTable(),
			Functions:       make(map[string]*FunctionDef),
			FunctionCallers: make(map[string][]int),
		},
		errors:  &ErrorList{},
		gateSet: make(map[string]bool),
	}

	stripped := commentStrip(source)
	p.collectGateNames(stripped)

	p.processScope(stripped, 0, nil)
	p.resolvePendingCalls()

	if p.errors.HasErrors() {
		return nil, p.errors
	}

	p.program.computeDependencies()
	return p.program, nil
}

// commentStrip replaces every `//...` span up to (not including) the next
// newline with spaces, preserving every other byte's position exactly so
// all downstream offsets stay valid against the original source.
func commentStrip(src string) string {
	out := []byte(src)
	i := 0
	for i < len(out)-1 {
		if out[i] == '/' && out[i+1] == '/' {
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
			continue
		}
		i++
	}
	return string(out)
}

// collectGateNames performs the function-name sweep: every statement
// beginning with "gate " contributes its name to the known-callee set,
// prior to classifying any statement (so forward calls resolve).
func (p *preprocessor) collectGateNames(stripped string) {
	for _, stmt := range splitTopLevelStatements(stripped, 0) {
		text := strings.TrimSpace(stmt.Text)
		if strings.HasPrefix(text, "gate ") {
			name, _, _ := splitGateHeader(text)
			if name != "" {
				p.gateSet[name] = true
			}
		}
	}
}

// splitTopLevelStatements scans src for statements terminated either by a
// ';' at brace depth 0, or by a '}' that closes a brace block opened at
// depth 0 (a gate definition's body needs no trailing ';'). This achieves
// the same safety the spec's block-sweep-and-token technique provides —
// semicolons inside a nested block never split the enclosing statement —
// without materializing an intermediate token string, which has no
// natural counterpart in a garbage-collected implementation.
func splitTopLevelStatements(src string, offset int) []rawStatement {
	var out []rawStatement
	depth := 0
	start := 0
	i := 0
	for i < len(src) {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end := i + 1
				// Swallow one optional trailing ';' immediately after '}'.
				j := end
				for j < len(src) && isSpace(src[j]) {
					j++
				}
				if j < len(src) && src[j] == ';' {
					end = j + 1
				}
				out = append(out, rawStatement{Text: src[start:end], Start: offset + start, End: offset + end})
				start = end
				i = end
				continue
			}
		case ';':
			if depth == 0 {
				out = append(out, rawStatement{Text: src[start : i+1], Start: offset + start, End: offset + i + 1})
				start = i + 1
			}
		}
		i++
	}
	if strings.TrimSpace(src[start:]) != "" {
		out = append(out, rawStatement{Text: src[start:], Start: offset + start, End: offset + len(src)})
	}
	return out
}

// processScope preprocesses one function scope (top-level when shadowed
// is nil, a gate body otherwise), appending instructions to
// p.program.Instructions in order. It returns the number of instructions
// appended.
func (p *preprocessor) processScope(src string, offset int, shadowed map[string]bool) int {
	scopeStart := len(p.program.Instructions)
	for _, stmt := range splitTopLevelStatements(src, offset) {
		trimmed := strings.TrimLeft(stmt.Text, " \t\n\r")
		leading := len(stmt.Text) - len(trimmed)
		text := strings.TrimRight(trimmed, " \t\n\r")
		if text == "" {
			continue
		}
		// Shrink the span by exactly what was trimmed so later byte-offset
		// arithmetic into text (e.g. locating a gate body) stays aligned
		// with the untrimmed raw source.
		pos := Position{Start: stmt.Start + leading, End: stmt.Start + leading + len(text)}
		p.processStatement(text, pos, shadowed)
	}
	return len(p.program.Instructions) - scopeStart
}

func (p *preprocessor) processStatement(text string, pos Position, shadowed map[string]bool) {
	switch {
	case strings.HasPrefix(text, "qreg "), strings.HasPrefix(text, "qreg\t"):
		p.processQubitDecl(text, pos)

	case strings.HasPrefix(text, "creg "), strings.HasPrefix(text, "creg\t"):
		p.processClassicalDecl(text, pos)

	case strings.HasPrefix(text, "gate "):
		p.processGateDef(text, pos, shadowed)

	case strings.HasPrefix(text, "assert-ent"), strings.HasPrefix(text, "assert-sup"), strings.HasPrefix(text, "assert-eq"):
		p.processAssertion(text, pos, shadowed)

	case strings.HasPrefix(text, "if("), strings.HasPrefix(text, "if ("):
		p.processClassicControlled(text, pos, shadowed)

	case strings.HasPrefix(text, "reset "):
		rest := util.TrimSemicolon(strings.TrimSpace(text[len("reset "):]))
		p.processSimulate(text, pos, "reset", util.SplitAny(rest, ",", false), nil)

	case strings.HasPrefix(text, "barrier"):
		rest := util.TrimSemicolon(strings.TrimSpace(text[len("barrier"):]))
		var targets []string
		if rest != "" {
			targets = util.SplitAny(rest, ",", false)
		}
		p.processSimulate(text, pos, "barrier", targets, nil)

	case strings.Contains(text, "->"):
		p.processMeasurement(text, pos)

	default:
		p.processOperationOrCall(text, pos, shadowed)
	}
}

func (p *preprocessor) emit(in *Instruction) int {
	in.Index = len(p.program.Instructions)
	p.program.Instructions = append(p.program.Instructions, in)
	return in.Index
}

func (p *preprocessor) processQubitDecl(text string, pos Position) {
	body := util.TrimSemicolon(strings.TrimSpace(text[len("qreg"):]))
	name, size, err := parseDecl(body)
	if err != nil {
		p.errors.AddError(NewErrorWithContext(pos, ErrorSyntax, "invalid qreg declaration: "+err.Error(), text))
		return
	}
	if _, err := p.program.Registers.DeclareQubitRegister(name, size); err != nil {
		p.errors.AddError(NewErrorWithContext(pos, ErrorSyntax, err.Error(), text))
		return
	}
	p.emit(&Instruction{Kind: KindNOP, Source: text, Pos: pos, Successor: len(p.program.Instructions) + 1, Targets: []string{name}})
}

func (p *preprocessor) processClassicalDecl(text string, pos Position) {
	body := util.TrimSemicolon(strings.TrimSpace(text[len("creg"):]))
	name, size, err := parseDecl(body)
	if err != nil {
		p.errors.AddError(NewErrorWithContext(pos, ErrorSyntax, "invalid creg declaration: "+err.Error(), text))
		return
	}
	if _, err := p.program.Registers.DeclareClassicalRegister(name, size); err != nil {
		p.errors.AddError(NewErrorWithContext(pos, ErrorSyntax, err.Error(), text))
		return
	}
	p.emit(&Instruction{Kind: KindNOP, Source: text, Pos: pos, Successor: len(p.program.Instructions) + 1, Targets: []string{name}})
}

// parseDecl parses "name[size]" from a qreg/creg declaration body.
func parseDecl(body string) (name string, size int, err error) {
	open := strings.IndexByte(body, '[')
	close := strings.IndexByte(body, ']')
	if open < 0 || close < 0 || close < open {
		return "", 0, fmt.Errorf("expected name[size], got %q", body)
	}
	name = strings.TrimSpace(body[:open])
	size, err = strconv.Atoi(strings.TrimSpace(body[open+1 : close]))
	if err != nil || size <= 0 {
		return "", 0, fmt.Errorf("invalid register size in %q", body)
	}
	return name, size, nil
}

// splitGateHeader parses a full "gate name p1, p2 { ... }" statement into
// the name, parameter list, and the body's byte span *within text itself*
// (not relative to any trimmed substring), so callers can add text's own
// base offset directly without further adjustment.
func splitGateHeader(text string) (name string, params []string, bodyRange [2]int) {
	open := strings.IndexByte(text, '{')
	if open < 0 {
		return "", nil, [2]int{-1, -1}
	}
	sig := strings.TrimSpace(text[len("gate "):open])
	// sig is "name" or "name p1, p2".
	firstSpace := strings.IndexAny(sig, " \t")
	if firstSpace < 0 {
		name = sig
	} else {
		name = sig[:firstSpace]
		params = util.SplitAny(strings.TrimSpace(sig[firstSpace+1:]), ",", false)
	}
	close := strings.LastIndexByte(text, '}')
	return name, params, [2]int{open + 1, close}
}

func (p *preprocessor) processGateDef(text string, pos Position, shadowed map[string]bool) {
	name, params, bodyRange := splitGateHeader(text)
	if name == "" || bodyRange[0] < 0 {
		p.errors.AddError(NewErrorWithContext(pos, ErrorMissingGateBody, "gate definition has no body", text))
		return
	}

	paramSet := make(map[string]bool, len(params))
	for _, pr := range params {
		paramSet[pr] = true
	}

	headerIndex := len(p.program.Instructions)
	// Placeholder header; Successor and ChildCount are patched once the
	// body and RETURN have been emitted, since both depend on how many
	// instructions the body contributes.
	header2 := &Instruction{
		Kind: KindNOP, Source: text, Pos: pos,
		InFunctionDef: true, FunctionName: name, FunctionParams: params,
	}
	p.emit(header2)

	bodyOffset := pos.Start + bodyRange[0]
	bodySrc := commentStrip(p.program.Source[bodyOffset : pos.Start+bodyRange[1]])
	bodyCount := p.processScope(bodySrc, bodyOffset, paramSet)

	retPos := Position{Start: pos.Start + bodyRange[1], End: pos.Start + bodyRange[1] + 1}
	retIndex := p.emit(&Instruction{
		Kind: KindReturn, Source: "}", Pos: retPos, Successor: ReturnSentinel,
		FunctionName: name,
	})

	header2.ChildCount = bodyCount
	header2.Successor = retIndex + 1 // skip straight past the body; only CALL enters it

	p.program.Functions[name] = &FunctionDef{
		Name: name, Params: params,
		HeaderIndex: headerIndex, BodyStart: headerIndex + 1, ReturnIndex: retIndex,
	}
}

func (p *preprocessor) processAssertion(text string, pos Position, shadowed map[string]bool) {
	a, err := assertion.Parse(text)
	if err != nil {
		p.errors.AddError(NewErrorWithContext(pos, ErrorInvalidAssertion, err.Error(), text))
		return
	}
	unfolded, err := assertion.UnfoldTargets(a.Targets, func(name string) (int, bool) {
		if def, ok := p.program.Registers.QubitRegister(name); ok {
			return def.Size, true
		}
		return 0, false
	}, shadowed)
	if err != nil {
		p.errors.AddError(NewErrorWithContext(pos, ErrorOutOfRangeTarget, err.Error(), text))
		return
	}
	a.Targets = unfolded

	// Every target must name a declared qubit within its register's bounds,
	// except a shadowed name, which is a gate parameter bound at the call site.
	for _, t := range unfolded {
		if shadowed[util.VariableBase(t)] {
			continue
		}
		if _, err := p.program.Registers.GlobalQubitIndex(t); err != nil {
			p.errors.AddError(NewErrorWithContext(pos, ErrorOutOfRangeTarget, err.Error(), text))
			return
		}
	}

	// Validate after unfolding: a bare register name (e.g. "q" of size 3) is
	// a legal equality target, and the state-vector length check needs the
	// resolved qubit count, not the raw pre-unfold target list.
	if err := assertion.Validate(a); err != nil {
		kind := ErrorInvalidAssertion
		if a.Kind == assertion.KindEquality {
			kind = ErrorThresholdRange
			if a.Body == assertion.BodyStatevector {
				kind = ErrorStateVectorLength
			}
		}
		p.errors.AddError(NewErrorWithContext(pos, kind, err.Error(), text))
		return
	}

	p.emit(&Instruction{
		Kind: KindAssertion, Source: text, Pos: pos,
		Successor: len(p.program.Instructions) + 1,
		Targets:   unfolded, Assertion: a,
	})
}

// processClassicControlled parses "if(reg==value) stmt;". A braced body
// after the condition is a parse error: only a single guarded statement is
// supported.
func (p *preprocessor) processClassicControlled(text string, pos Position, shadowed map[string]bool) {
	open := strings.IndexByte(text, '(')
	close := strings.IndexByte(text, ')')
	if open < 0 || close < 0 || close < open {
		p.errors.AddError(NewErrorWithContext(pos, ErrorSyntax, "malformed if condition", text))
		return
	}
	cond := strings.TrimSpace(text[open+1 : close])
	inner := strings.TrimSpace(text[close+1:])
	if strings.HasPrefix(inner, "{") {
		p.errors.AddError(NewErrorWithContext(pos, ErrorSyntax, "classic-controlled gate may not have a block body", text))
		return
	}

	eq := strings.Index(cond, "==")
	if eq < 0 {
		p.errors.AddError(NewErrorWithContext(pos, ErrorSyntax, "if condition must be reg==value", text))
		return
	}
	reg := strings.TrimSpace(cond[:eq])
	value, err := strconv.Atoi(strings.TrimSpace(cond[eq+2:]))
	if err != nil {
		p.errors.AddError(NewErrorWithContext(pos, ErrorSyntax, "invalid if condition value", text))
		return
	}

	gateName, targets := parseGateCall(util.TrimSemicolon(inner))
	p.emit(&Instruction{
		Kind: KindSimulate, Source: text, Pos: pos,
		Successor: len(p.program.Instructions) + 1,
		Targets:   targets, GateName: gateName,
		Condition: &ClassicalCondition{Register: reg, Value: value},
	})
}

func (p *preprocessor) processMeasurement(text string, pos Position) {
	arrow := strings.Index(text, "->")
	lhs := strings.TrimSpace(text[:arrow])
	rhs := util.TrimSemicolon(strings.TrimSpace(text[arrow+2:]))
	lhs = strings.TrimPrefix(lhs, "measure")
	lhs = strings.TrimSpace(lhs)
	p.processSimulate(text, pos, "measure", []string{lhs, rhs}, nil)
}

func (p *preprocessor) processSimulate(text string, pos Position, gateName string, targets []string, cond *ClassicalCondition) {
	p.emit(&Instruction{
		Kind: KindSimulate, Source: text, Pos: pos,
		Successor: len(p.program.Instructions) + 1,
		Targets:   targets, GateName: gateName, Condition: cond,
	})
}

// parseGateCall splits "name arg1, arg2" into the gate/call name and its
// argument list.
func parseGateCall(stmt string) (name string, args []string) {
	stmt = strings.TrimSpace(stmt)
	sep := strings.IndexAny(stmt, " \t")
	if sep < 0 {
		return stmt, nil
	}
	name = stmt[:sep]
	rest := strings.TrimSpace(stmt[sep+1:])
	if rest == "" {
		return name, nil
	}
	return name, util.SplitAny(rest, ",", false)
}

// resolvePendingCalls patches every forward-referenced CALL instruction
// (recorded by processOperationOrCall while its gate's FunctionDef didn't
// exist yet) now that processScope has finished and every gate definition
// in the source has been processed. This is the two-pass resolution the
// original performs by resolving successorIndex/arity in a final loop over
// the whole scope's instructions, after all gate bodies have been built.
func (p *preprocessor) resolvePendingCalls() {
	for _, call := range p.pending {
		def := p.program.Functions[call.name]
		var params []string
		if def != nil {
			params = def.Params
		}
		if len(params) != len(call.args) {
			p.errors.AddError(NewErrorWithContext(call.pos, ErrorArityMismatch,
				fmt.Sprintf("call to %q expects %d argument(s), got %d", call.name, len(params), len(call.args)), call.text))
			continue
		}
		sub := make(map[string]string, len(params))
		for i, param := range params {
			sub[param] = call.args[i]
		}
		in := p.program.Instructions[call.instr]
		in.Substitution = sub
		if def != nil {
			in.Successor = def.BodyStart
		}
	}
}

func (p *preprocessor) processOperationOrCall(text string, pos Position, shadowed map[string]bool) {
	stmt := util.TrimSemicolon(text)
	name, args := parseGateCall(stmt)

	if p.gateSet[name] && !shadowed[name] {
		def := p.program.Functions[name]
		if def == nil {
			// name is known to be a gate (collectGateNames's pre-scan saw its
			// "gate NAME ..." header), but that definition hasn't been
			// processed yet in this top-to-bottom pass, so its params and
			// body entry point aren't known. Emit a placeholder and resolve
			// it for real once every gate in the source has been processed.
			idx := p.emit(&Instruction{
				Kind: KindCall, Source: text, Pos: pos,
				Successor: len(p.program.Instructions) + 1, Targets: args,
				Callee: name,
			})
			p.program.FunctionCallers[name] = append(p.program.FunctionCallers[name], idx)
			p.pending = append(p.pending, pendingCall{instr: idx, name: name, args: args, pos: pos, text: text})
			return
		}

		if len(def.Params) != len(args) {
			p.errors.AddError(NewErrorWithContext(pos, ErrorArityMismatch,
				fmt.Sprintf("call to %q expects %d argument(s), got %d", name, len(def.Params), len(args)), text))
			return
		}
		sub := make(map[string]string, len(def.Params))
		for i, param := range def.Params {
			sub[param] = args[i]
		}
		idx := p.emit(&Instruction{
			Kind: KindCall, Source: text, Pos: pos,
			Successor: def.BodyStart, Targets: args,
			Callee: name, Substitution: sub,
		})
		p.program.FunctionCallers[name] = append(p.program.FunctionCallers[name], idx)
		return
	}

	// Any other bare identifier is an intrinsic gate application (h, x, cx,
	// cz, ...); the DD package's gate set is open-ended and not enumerated
	// here.
	p.emit(&Instruction{
		Kind: KindSimulate, Source: text, Pos: pos,
		Successor: len(p.program.Instructions) + 1,
		Targets:   args, GateName: name,
	})
}
