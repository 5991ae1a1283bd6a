package rbac

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"gopkg.in/yaml.v3"
)

//go:embed model.conf
var modelText string

//go:embed policy.yaml
var defaultPolicy []byte

type policyFile map[string]map[string][]string

// Authorizer answers whether a role may perform an action on a resource.
type Authorizer interface {
	Can(role user.Role, resource user.Resource, action user.Action) (bool, error)
}

type Enforcer struct {
	enforcer *casbin.Enforcer
}

// NewEnforcer builds an enforcer from the embedded role policy.
func NewEnforcer() (*Enforcer, error) {
	return NewEnforcerFromYAML(defaultPolicy)
}

func NewEnforcerFromYAML(policy []byte) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	var pf policyFile
	if err := yaml.Unmarshal(policy, &pf); err != nil {
		return nil, fmt.Errorf("parse rbac policy: %w", err)
	}

	roles := make([]string, 0, len(pf))
	for role := range pf {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for _, role := range roles {
		if !user.Role(role).IsValid() {
			return nil, fmt.Errorf("rbac policy: unknown role %q", role)
		}
		for resource, actions := range pf[role] {
			for _, action := range actions {
				if _, err := e.AddPolicy(role, resource, action); err != nil {
					return nil, fmt.Errorf("add policy %s/%s/%s: %w", role, resource, action, err)
				}
			}
		}
	}

	return &Enforcer{enforcer: e}, nil
}

func (e *Enforcer) Can(role user.Role, resource user.Resource, action user.Action) (bool, error) {
	return e.enforcer.Enforce(string(role), string(resource), string(action))
}
