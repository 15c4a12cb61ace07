// Package registry holds the in-memory team and component-alias maps. Both
// maps live for the life of the process and are seeded once from
// configuration; there is no persistence.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// NotFoundError reports a lookup against an unknown team or alias. Known
// names are enumerated in the message where feasible.
type NotFoundError struct {
	Kind  string
	Name  string
	Known []string
}

func (e *NotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %q not found, known: %s", e.Kind, e.Name, strings.Join(e.Known, ", "))
}

// Registry maps team names to ordered member lists and component aliases to
// canonical component names. A single mutex guards both maps; contention is
// low and correctness matters more than throughput here.
type Registry struct {
	mu      sync.Mutex
	teams   map[string][]string
	aliases map[string]string
}

// New builds a registry seeded from the given maps. Either seed may be nil.
func New(teams map[string][]string, aliases map[string]string) *Registry {
	r := &Registry{
		teams:   make(map[string][]string, len(teams)),
		aliases: make(map[string]string, len(aliases)),
	}
	for name, members := range teams {
		r.teams[name] = append([]string(nil), members...)
	}
	for alias, canonical := range aliases {
		r.aliases[alias] = canonical
	}
	return r
}

// AddTeam adds or replaces a team. An existing member list is replaced
// entirely, not merged.
func (r *Registry) AddTeam(name string, members []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[name] = append([]string(nil), members...)
}

// RemoveTeam deletes a team, failing if it is unknown.
func (r *Registry) RemoveTeam(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[name]; !ok {
		return &NotFoundError{Kind: "team", Name: name, Known: sortedKeys(r.teams)}
	}
	delete(r.teams, name)
	return nil
}

// TeamMembers returns the ordered member list for a team.
func (r *Registry) TeamMembers(name string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.teams[name]
	if !ok {
		return nil, &NotFoundError{Kind: "team", Name: name, Known: sortedKeys(r.teams)}
	}
	return append([]string(nil), members...), nil
}

// ListTeams returns a copy of all teams; mutating it does not affect the
// registry.
func (r *Registry) ListTeams() map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string][]string, len(r.teams))
	for name, members := range r.teams {
		out[name] = append([]string(nil), members...)
	}
	return out
}

// AddComponentAlias adds or replaces an alias for a canonical component name.
func (r *Registry) AddComponentAlias(alias, canonical string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = canonical
}

// RemoveComponentAlias deletes an alias, failing if it is unknown.
func (r *Registry) RemoveComponentAlias(alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.aliases[alias]; !ok {
		return &NotFoundError{Kind: "component alias", Name: alias, Known: sortedKeys(r.aliases)}
	}
	delete(r.aliases, alias)
	return nil
}

// ResolveComponentName maps an alias to its canonical component name.
// Resolution is case-sensitive; an unknown input is assumed to already be
// canonical and is returned unchanged.
func (r *Registry) ResolveComponentName(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if canonical, ok := r.aliases[name]; ok {
		return canonical
	}
	return name
}

// ResolveComponentNames resolves each entry in order, preserving length.
func (r *Registry) ResolveComponentNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, r.ResolveComponentName(name))
	}
	return out
}

// ListComponentAliases returns a copy of the alias map.
func (r *Registry) ListComponentAliases() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.aliases))
	for alias, canonical := range r.aliases {
		out[alias] = canonical
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
