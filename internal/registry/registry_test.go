package registry

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestAddTeamReplacesMembers(t *testing.T) {
	r := New(nil, nil)

	r.AddTeam("x", []string{"alice", "bob"})
	r.AddTeam("x", []string{"carol"})

	members, err := r.TeamMembers("x")
	if err != nil {
		t.Fatalf("TeamMembers returned error: %v", err)
	}
	if !reflect.DeepEqual(members, []string{"carol"}) {
		t.Errorf("members = %v, want the second list to replace the first", members)
	}
}

func TestTeamMembersNotFound(t *testing.T) {
	r := New(map[string][]string{"frontend": {"alice"}}, nil)

	_, err := r.TeamMembers("nonexistent")
	if err == nil {
		t.Fatal("expected error for unknown team, got nil")
	}
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("error = %T, want *NotFoundError", err)
	}
	if !strings.Contains(err.Error(), "frontend") {
		t.Errorf("error %q should enumerate known team names", err.Error())
	}
}

func TestRemoveTeam(t *testing.T) {
	r := New(map[string][]string{
		"frontend": {"alice", "bob"},
		"backend":  {"carol"},
	}, nil)

	if err := r.RemoveTeam("frontend"); err != nil {
		t.Fatalf("RemoveTeam returned error: %v", err)
	}

	teams := r.ListTeams()
	if _, ok := teams["frontend"]; ok {
		t.Error("removed team still listed")
	}
	if _, ok := teams["backend"]; !ok {
		t.Error("sibling team was affected by removal")
	}

	if err := r.RemoveTeam("frontend"); err == nil {
		t.Error("expected error removing an unknown team, got nil")
	}
}

func TestListTeamsDefensiveCopy(t *testing.T) {
	r := New(map[string][]string{"devops": {"eve"}}, nil)

	teams := r.ListTeams()
	teams["devops"] = append(teams["devops"], "mallory")
	teams["intruders"] = []string{"trudy"}

	members, err := r.TeamMembers("devops")
	if err != nil {
		t.Fatalf("TeamMembers returned error: %v", err)
	}
	if !reflect.DeepEqual(members, []string{"eve"}) {
		t.Errorf("members = %v, mutation of the listed copy leaked into the registry", members)
	}
	if _, err := r.TeamMembers("intruders"); err == nil {
		t.Error("new key added to the listed copy leaked into the registry")
	}
}

func TestResolveComponentNames(t *testing.T) {
	r := New(nil, map[string]string{
		"ui": "User Interface",
		"be": "Backend Services",
	})

	resolved := r.ResolveComponentNames([]string{"ui", "Database", "be"})
	want := []string{"User Interface", "Database", "Backend Services"}
	if !reflect.DeepEqual(resolved, want) {
		t.Errorf("resolved = %v, want %v", resolved, want)
	}

	if out := r.ResolveComponentNames([]string{}); len(out) != 0 {
		t.Errorf("empty input resolved to %v, want empty", out)
	}
}

func TestResolveComponentNameCaseSensitive(t *testing.T) {
	r := New(nil, map[string]string{"ui": "User Interface"})

	if got := r.ResolveComponentName("UI"); got != "UI" {
		t.Errorf("ResolveComponentName(\"UI\") = %q, want identity for unknown casing", got)
	}
}

func TestComponentAliasLifecycle(t *testing.T) {
	r := New(nil, nil)

	r.AddComponentAlias("ui", "User Interface")
	r.AddComponentAlias("ui", "User Interface v2")

	if got := r.ResolveComponentName("ui"); got != "User Interface v2" {
		t.Errorf("resolve after upsert = %q, want replacement", got)
	}

	r.AddComponentAlias("be", "Backend Services")
	if err := r.RemoveComponentAlias("ui"); err != nil {
		t.Fatalf("RemoveComponentAlias returned error: %v", err)
	}

	aliases := r.ListComponentAliases()
	if _, ok := aliases["ui"]; ok {
		t.Error("removed alias still listed")
	}
	if aliases["be"] != "Backend Services" {
		t.Error("sibling alias was affected by removal")
	}

	err := r.RemoveComponentAlias("ui")
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("error = %T, want *NotFoundError", err)
	}
}

func TestListComponentAliasesDefensiveCopy(t *testing.T) {
	r := New(nil, map[string]string{"ui": "User Interface"})

	aliases := r.ListComponentAliases()
	aliases["new"] = "New Component"

	if got := r.ResolveComponentName("new"); got != "new" {
		t.Errorf("mutation of the listed copy leaked into the registry: %q", got)
	}
}

func TestSeedCopies(t *testing.T) {
	seedTeams := map[string][]string{"frontend": {"alice"}}
	seedAliases := map[string]string{"ui": "User Interface"}
	r := New(seedTeams, seedAliases)

	seedTeams["frontend"][0] = "mallory"
	seedAliases["ui"] = "Tampered"

	members, err := r.TeamMembers("frontend")
	if err != nil {
		t.Fatalf("TeamMembers returned error: %v", err)
	}
	if members[0] != "alice" {
		t.Errorf("seed slice mutation leaked into the registry: %v", members)
	}
	if got := r.ResolveComponentName("ui"); got != "User Interface" {
		t.Errorf("seed map mutation leaked into the registry: %q", got)
	}
}
