package validator

import (
	"sort"

	"nfextract/internal/validator/nfe"
)

// Registry maps rule keys to Validator implementations.
type Registry struct {
	validators map[string]Validator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]Validator)}
}

// NewDefaultRegistry returns a Registry holding every built-in NFe rule.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, v := range nfe.AllBuiltinValidators() {
		r.Register(v)
	}
	return r
}

// Register adds a validator, replacing any previous one with the same key.
func (r *Registry) Register(v Validator) {
	r.validators[v.RuleKey()] = v
}

// Get returns the validator for a given rule key, or nil if not found.
func (r *Registry) Get(key string) Validator {
	return r.validators[key]
}

// All returns all registered validators ordered by rule key.
func (r *Registry) All() []Validator {
	out := make([]Validator, 0, len(r.validators))
	for _, v := range r.validators {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleKey() < out[j].RuleKey() })
	return out
}
