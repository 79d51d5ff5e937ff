package model

// Filter is a conjunction of equality clauses on chunk metadata fields.
// A filter is either a single Clause or an And of several; the store
// decides how to render the finalized form.
type Filter interface {
	// Where returns the metadata document every matching chunk must contain.
	Where() Metadata
}

// Clause is a single equality constraint on one metadata field.
type Clause struct {
	Field string
	Value interface{}
}

func (c Clause) Where() Metadata {
	return Metadata{c.Field: c.Value}
}

// And combines filters conjunctively.
type And []Filter

func (a And) Where() Metadata {
	merged := Metadata{}
	for _, f := range a {
		for k, v := range f.Where() {
			merged[k] = v
		}
	}
	return merged
}

// FilterBuilder composes a filter from a base clause plus optional clauses.
// A single-clause filter finalizes to the Clause itself; multiple clauses
// finalize to an And.
type FilterBuilder struct {
	clauses []Clause
}

// NewFilterBuilder creates a builder with the mandatory base clause.
func NewFilterBuilder(base Clause) *FilterBuilder {
	return &FilterBuilder{clauses: []Clause{base}}
}

// Append adds a clause unconditionally.
func (b *FilterBuilder) Append(clause Clause) *FilterBuilder {
	b.clauses = append(b.clauses, clause)
	return b
}

// AppendIf adds a clause only when cond holds.
func (b *FilterBuilder) AppendIf(cond bool, clause Clause) *FilterBuilder {
	if cond {
		b.clauses = append(b.clauses, clause)
	}
	return b
}

// Build finalizes the filter.
func (b *FilterBuilder) Build() Filter {
	if len(b.clauses) == 1 {
		return b.clauses[0]
	}
	and := make(And, len(b.clauses))
	for i, c := range b.clauses {
		and[i] = c
	}
	return and
}
