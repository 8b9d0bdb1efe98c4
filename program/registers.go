package program

import (
	"fmt"

	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// VariableType discriminates the classical-variable value kinds the
// language supports.
type VariableType int

const (
	TypeBool VariableType = iota
	TypeInt
	TypeFloat
)

// QubitRegisterDefinition is one declared `qreg name[size];`. Registers are
// declared globally; indices are contiguous across registers in
// declaration order.
type QubitRegisterDefinition struct {
	Name      string
	BaseIndex int
	Size      int
}

// ClassicalRegisterDefinition is one declared `creg name[size];`.
type ClassicalRegisterDefinition struct {
	Name      string
	BaseIndex int
	Size      int
}

// Variable is one classical bit, created per classical-register bit at
// load time and updated by measurement.
type Variable struct {
	Name  string
	Type  VariableType
	Value interface{}
}

// RegisterTable holds the program's global register and variable
// declarations, built during preprocessing (modeled on the teacher's
// SymbolTable, specialized to this language's two register kinds instead
// of labels/constants).
type RegisterTable struct {
	qubitRegs      map[string]*QubitRegisterDefinition
	classicalRegs  map[string]*ClassicalRegisterDefinition
	qubitOrder     []string
	classicalOrder []string
	variables      []*Variable
	numQubits      int
}

// NewRegisterTable creates an empty register table.
func NewRegisterTable() *RegisterTable {
	return &RegisterTable{
		qubitRegs:     make(map[string]*QubitRegisterDefinition),
		classicalRegs: make(map[string]*ClassicalRegisterDefinition),
	}
}

// DeclareQubitRegister records a qreg declaration, assigning it the next
// contiguous block of qubit indices.
func (rt *RegisterTable) DeclareQubitRegister(name string, size int) (*QubitRegisterDefinition, error) {
	if _, exists := rt.qubitRegs[name]; exists {
		return nil, fmt.Errorf("qubit register %q already declared", name)
	}
	def := &QubitRegisterDefinition{Name: name, BaseIndex: rt.numQubits, Size: size}
	rt.qubitRegs[name] = def
	rt.qubitOrder = append(rt.qubitOrder, name)
	rt.numQubits += size
	return def, nil
}

// DeclareClassicalRegister records a creg declaration and seeds one
// Variable per bit, initialized to false.
func (rt *RegisterTable) DeclareClassicalRegister(name string, size int) (*ClassicalRegisterDefinition, error) {
	if _, exists := rt.classicalRegs[name]; exists {
		return nil, fmt.Errorf("classical register %q already declared", name)
	}
	def := &ClassicalRegisterDefinition{Name: name, BaseIndex: len(rt.variables), Size: size}
	rt.classicalRegs[name] = def
	rt.classicalOrder = append(rt.classicalOrder, name)
	for i := 0; i < size; i++ {
		rt.variables = append(rt.variables, &Variable{
			Name:  fmt.Sprintf("%s[%d]", name, i),
			Type:  TypeBool,
			Value: false,
		})
	}
	return def, nil
}

// QubitRegister looks up a declared qubit register by name.
func (rt *RegisterTable) QubitRegister(name string) (*QubitRegisterDefinition, bool) {
	def, ok := rt.qubitRegs[name]
	return def, ok
}

// ClassicalRegister looks up a declared classical register by name.
func (rt *RegisterTable) ClassicalRegister(name string) (*ClassicalRegisterDefinition, bool) {
	def, ok := rt.classicalRegs[name]
	return def, ok
}

// NumQubits is the total number of declared qubits across all registers.
func (rt *RegisterTable) NumQubits() int {
	return rt.numQubits
}

// Variables returns the full ordered classical-variable slice.
func (rt *RegisterTable) Variables() []*Variable {
	return rt.variables
}

// VariableByName returns the classical variable matching "reg[index]".
func (rt *RegisterTable) VariableByName(name string) (*Variable, bool) {
	for _, v := range rt.variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// GlobalQubitIndex resolves "reg" or "reg[i]" to a 0-based global qubit
// index. A bare register name is only valid when the register has size 1.
func (rt *RegisterTable) GlobalQubitIndex(ref string) (int, error) {
	base := util.VariableBase(ref)
	index, hasIndex := util.VariableIndex(ref)
	def, ok := rt.qubitRegs[base]
	if !ok {
		return 0, fmt.Errorf("undeclared qubit register %q", base)
	}
	if !hasIndex {
		if def.Size != 1 {
			return 0, fmt.Errorf("register %q requires an index", base)
		}
		index = 0
	}
	if index < 0 || index >= def.Size {
		return 0, fmt.Errorf("qubit index %d out of range for register %q[%d]", index, base, def.Size)
	}
	return def.BaseIndex + index, nil
}

// QubitName renders a global qubit index back to its "reg" or "reg[i]"
// source form, for introspection getters. Returns false if index is out
// of range.
func (rt *RegisterTable) QubitName(index int) (string, bool) {
	for _, name := range rt.qubitOrder {
		def := rt.qubitRegs[name]
		if index >= def.BaseIndex && index < def.BaseIndex+def.Size {
			if def.Size == 1 {
				return def.Name, true
			}
			return fmt.Sprintf("%s[%d]", def.Name, index-def.BaseIndex), true
		}
	}
	return "", false
}

// GlobalClassicalBitIndex resolves "reg[i]" to a 0-based index into
// Variables().
func (rt *RegisterTable) GlobalClassicalBitIndex(ref string) (int, error) {
	base := util.VariableBase(ref)
	index, hasIndex := util.VariableIndex(ref)
	def, ok := rt.classicalRegs[base]
	if !ok {
		return 0, fmt.Errorf("undeclared classical register %q", base)
	}
	if !hasIndex {
		if def.Size != 1 {
			return 0, fmt.Errorf("register %q requires an index", base)
		}
		index = 0
	}
	if index < 0 || index >= def.Size {
		return 0, fmt.Errorf("classical index %d out of range for register %q[%d]", index, base, def.Size)
	}
	return def.BaseIndex + index, nil
}
