package services

import (
	"fmt"

	"github.com/casbin/casbin/v2"

	"github.com/you/identitysvc/domain"
)

// RoutePolicy is a single role/path/method grant
type RoutePolicy struct {
	Role     string
	Resource string
	Action   string
}

// DefaultRoutePolicies are the grants every deployment starts with
var DefaultRoutePolicies = []RoutePolicy{
	{Role: domain.RoleUser, Resource: "/users/me", Action: "GET"},
	{Role: domain.RoleUser, Resource: "/verification/email", Action: "POST"},
	{Role: domain.RoleUser, Resource: "/verification/email/check", Action: "POST"},
}

// PolicyServiceImpl implements domain.PolicyService using Casbin
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service backed by a casbin enforcer
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// AddPolicy implements domain.PolicyService
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	exists, err := p.enforcer.HasPolicy(role, resource, action)
	if err != nil {
		return fmt.Errorf("failed to look up policy: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := p.enforcer.AddPolicy(role, resource, action); err != nil {
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(role, resource, action)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}

// SeedPolicies grants every policy in the list
func SeedPolicies(svc domain.PolicyService, policies []RoutePolicy) error {
	for _, policy := range policies {
		if err := svc.AddPolicy(policy.Role, policy.Resource, policy.Action); err != nil {
			return fmt.Errorf("seed %s %s %s: %w", policy.Role, policy.Action, policy.Resource, err)
		}
	}
	return nil
}
