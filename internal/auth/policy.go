package auth

import (
	"errors"
	"fmt"
	"slices"

	"github.com/BurntSushi/toml"
)

// ErrForbidden is returned when a provider's allow-list excludes the uid.
var ErrForbidden = errors.New("uid is not allowed for this provider")

type Role string

const (
	RoleUser      Role = "USER"
	RoleStaff     Role = "STAFF"
	RoleSuperuser Role = "SUPERUSER"
)

// IsStaff reports whether role may administer sets.
func IsStaff(role string) bool {
	return role == string(RoleStaff) || role == string(RoleSuperuser)
}

// ProviderPolicy holds the uid lists for one identity provider.
// An absent allowed_uids key admits everyone; an empty list admits nobody.
type ProviderPolicy struct {
	AllowedUIDs   []string `toml:"allowed_uids"`
	StaffUIDs     []string `toml:"staff_uids"`
	SuperuserUIDs []string `toml:"superuser_uids"`

	restricted bool
}

type Policies struct {
	providers map[string]ProviderPolicy
}

type policyFile struct {
	Providers map[string]ProviderPolicy `toml:"providers"`
}

// LoadPolicies reads provider policies from a TOML file of the form
//
//	[providers.discord]
//	allowed_uids = ["1234"]
//	staff_uids = ["1234"]
func LoadPolicies(path string) (*Policies, error) {
	var f policyFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("load provider policies: %w", err)
	}
	return newPolicies(f, md), nil
}

// ParsePolicies is LoadPolicies for an in-memory document.
func ParsePolicies(doc string) (*Policies, error) {
	var f policyFile
	md, err := toml.Decode(doc, &f)
	if err != nil {
		return nil, fmt.Errorf("parse provider policies: %w", err)
	}
	return newPolicies(f, md), nil
}

func newPolicies(f policyFile, md toml.MetaData) *Policies {
	p := &Policies{providers: make(map[string]ProviderPolicy, len(f.Providers))}
	for name, pol := range f.Providers {
		pol.restricted = md.IsDefined("providers", name, "allowed_uids")
		p.providers[name] = pol
	}
	return p
}

// Providers returns the configured provider names.
func (p *Policies) Providers() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.providers))
	for name := range p.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Authorize resolves the role of uid signed in through provider.
// Providers without a policy admit everyone as USER.
func (p *Policies) Authorize(provider, uid string) (Role, error) {
	if p == nil {
		return RoleUser, nil
	}
	pol, ok := p.providers[provider]
	if !ok {
		return RoleUser, nil
	}
	if pol.restricted && !slices.Contains(pol.AllowedUIDs, uid) {
		return "", ErrForbidden
	}
	switch {
	case slices.Contains(pol.SuperuserUIDs, uid):
		return RoleSuperuser, nil
	case slices.Contains(pol.StaffUIDs, uid):
		return RoleStaff, nil
	}
	return RoleUser, nil
}
