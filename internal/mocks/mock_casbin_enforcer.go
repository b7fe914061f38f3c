package mocks

import (
	"slices"

	"github.com/you/identitysvc/domain"
)

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing
type MockCasbinEnforcer struct {
	AddPolicyFunc func(params ...interface{}) (bool, error)
	HasPolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc   func(rvals ...interface{}) (bool, error)
	GetPolicyFunc func() ([][]string, error)

	AddCalls int
	policies [][]string
}

// Compile-time interface compliance verification
var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer with no policies
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{}
}

// AddPolicy adds a new policy rule
func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	m.AddCalls++
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	rule := toRule(params)
	if m.find(rule) >= 0 {
		return false, nil
	}
	m.policies = append(m.policies, rule)
	return true, nil
}

// HasPolicy reports whether the exact rule is stored
func (m *MockCasbinEnforcer) HasPolicy(params ...interface{}) (bool, error) {
	if m.HasPolicyFunc != nil {
		return m.HasPolicyFunc(params...)
	}
	return m.find(toRule(params)) >= 0, nil
}

// Enforce checks if a request should be allowed
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	// Default behavior: exact rule match only
	return m.find(toRule(rvals)) >= 0, nil
}

// GetPolicy returns all policies
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	result := make([][]string, len(m.policies))
	for i, policy := range m.policies {
		result[i] = slices.Clone(policy)
	}
	return result, nil
}

// SetPolicies sets the internal policies (test helper)
func (m *MockCasbinEnforcer) SetPolicies(policies [][]string) {
	m.policies = make([][]string, len(policies))
	for i, policy := range policies {
		m.policies[i] = slices.Clone(policy)
	}
}

func (m *MockCasbinEnforcer) find(rule []string) int {
	return slices.IndexFunc(m.policies, func(p []string) bool {
		return slices.Equal(p, rule)
	})
}

func toRule(params []interface{}) []string {
	rule := make([]string, 0, len(params))
	for _, param := range params {
		if s, ok := param.(string); ok {
			rule = append(rule, s)
		}
	}
	return rule
}
