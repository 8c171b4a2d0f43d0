package engine

import (
	"sort"
	"strings"

	"absint/internal/ast"
	"absint/internal/domain"
)

// Memory is the abstract memory M of spec §3: a mapping from variable
// identifier to abstract value. A missing key means "not yet introduced";
// Get materialises ⊤ for it rather than failing, so evaluation never blocks
// on an undefined variable.
type Memory struct {
	dom  domain.Domain
	vals map[ast.Var]domain.Value
}

// NewMemory creates an empty memory for the given domain.
func NewMemory(dom domain.Domain) *Memory {
	return &Memory{dom: dom, vals: make(map[ast.Var]domain.Value)}
}

// NewMemoryFrom creates a memory pre-populated from a caller-supplied
// binding table (spec §3: "memories are created empty or from a
// caller-supplied binding table").
func NewMemoryFrom(dom domain.Domain, bindings map[ast.Var]domain.Value) *Memory {
	m := NewMemory(dom)
	for k, v := range bindings {
		m.vals[k] = v
	}
	return m
}

// Get reads a binding, materialising and recording ⊤ if the variable has
// never been introduced (spec §3).
func (m *Memory) Get(v ast.Var) domain.Value {
	if val, ok := m.vals[v]; ok {
		return val
	}
	top := m.dom.Top()
	m.vals[v] = top
	return top
}

// Set overwrites a binding unconditionally.
func (m *Memory) Set(v ast.Var, a domain.Value) {
	m.vals[v] = a
}

// Bindings exposes the underlying map read-only, for callers (CLI, REPL,
// LSP, tests) that need to enumerate the post-state.
func (m *Memory) Bindings() map[ast.Var]domain.Value {
	return m.vals
}

// Clone returns an independent copy; the engine clones at every branch
// point so that sibling traversals never share mutable state (spec §5).
func (m *Memory) Clone() *Memory {
	cp := make(map[ast.Var]domain.Value, len(m.vals))
	for k, v := range m.vals {
		cp[k] = v
	}
	return &Memory{dom: m.dom, vals: cp}
}

// MakeInfeasible marks every currently bound variable ⊥, so any downstream
// read of this memory propagates unreachability (spec §4.4, §7).
func (m *Memory) MakeInfeasible() {
	bottom := m.dom.Bottom()
	for k := range m.vals {
		m.vals[k] = bottom
	}
}

// Join returns self ⊔ other: for every key in other, replace self's value
// with the domain join (inserting as-is if self lacks the key); keys only
// in self are left untouched (spec §4.4, "Memory join").
func (m *Memory) Join(other *Memory) *Memory {
	result := m.Clone()
	for k, ov := range other.vals {
		if sv, ok := result.vals[k]; ok {
			result.vals[k] = sv.Join(ov)
		} else {
			result.vals[k] = ov
		}
	}
	return result
}

// WidenMemories combines two memories endpoint-wise with the domain's
// Widen, keyed on the previous/next iterates of a loop's Kleene iteration
// (spec §4.4, "Memory widen"). Keys present in only one memory take that
// memory's value unchanged.
func WidenMemories(prev, next *Memory, threshold domain.Value) *Memory {
	result := NewMemory(prev.dom)
	for k, pv := range prev.vals {
		if nv, ok := next.vals[k]; ok {
			result.vals[k] = nv.Widen(pv, threshold)
		} else {
			result.vals[k] = pv
		}
	}
	for k, nv := range next.vals {
		if _, ok := result.vals[k]; !ok {
			result.vals[k] = nv
		}
	}
	return result
}

// Includes is true iff other ⊑ self: for each key in other also bound in
// self, self's value must include other's; keys other binds that self
// lacks are treated as ⊤ in self and thus trivially included (spec §4.4,
// "Memory inclusion").
func (m *Memory) Includes(other *Memory) bool {
	for k, ov := range other.vals {
		if sv, ok := m.vals[k]; ok {
			if !sv.Includes(ov) {
				return false
			}
		}
	}
	return true
}

// Equal reports whether the two memories bind the same identifiers to
// equal values (spec §3).
func (m *Memory) Equal(other *Memory) bool {
	if len(m.vals) != len(other.vals) {
		return false
	}
	for k, v := range m.vals {
		ov, ok := other.vals[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// String renders one "var = value" line per binding, sorted by identifier
// so CLI/REPL/test output is deterministic.
func (m *Memory) String() string {
	keys := make([]string, 0, len(m.vals))
	for k := range m.vals {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteString(" = ")
		b.WriteString(m.vals[ast.Var(k)].String())
	}
	return b.String()
}
