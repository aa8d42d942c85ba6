package shadergen

import "testing"

func namesOf(eps []EntryPoint) []string {
	out := make([]string, len(eps))
	for i, e := range eps {
		out[i] = e.Name
	}
	return out
}

func TestSortEntryPointsRespectsAfter(t *testing.T) {
	eps := []EntryPoint{
		NewEntryPoint("b", StageFragment, "", NamedDependency{Name: "a", Type: After}),
		NewEntryPoint("a", StageFragment, ""),
	}
	sorted, err := SortEntryPoints(eps, false)
	if err != nil {
		t.Fatalf("SortEntryPoints: %v", err)
	}
	got := namesOf(sorted)
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("got order %v, want [a b]", got)
	}
}

func TestSortEntryPointsRespectsBefore(t *testing.T) {
	eps := []EntryPoint{
		NewEntryPoint("a", StageFragment, "", NamedDependency{Name: "b", Type: Before}),
		NewEntryPoint("b", StageFragment, ""),
	}
	sorted, err := SortEntryPoints(eps, false)
	if err != nil {
		t.Fatalf("SortEntryPoints: %v", err)
	}
	got := namesOf(sorted)
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("got order %v, want [a b]", got)
	}
}

func TestSortEntryPointsTieBreaksByDeclarationOrder(t *testing.T) {
	eps := []EntryPoint{
		NewEntryPoint("x", StageFragment, ""),
		NewEntryPoint("y", StageFragment, ""),
		NewEntryPoint("z", StageFragment, ""),
	}
	sorted, err := SortEntryPoints(eps, false)
	if err != nil {
		t.Fatalf("SortEntryPoints: %v", err)
	}
	got := namesOf(sorted)
	if got[0] != "x" || got[1] != "y" || got[2] != "z" {
		t.Fatalf("got order %v, want [x y z]", got)
	}
}

func TestSortEntryPointsToleratesMissingDependencyByDefault(t *testing.T) {
	eps := []EntryPoint{
		NewEntryPoint("a", StageFragment, "", NamedDependency{Name: "ghost", Type: After}),
	}
	if _, err := SortEntryPoints(eps, false); err != nil {
		t.Fatalf("expected tolerant mode to ignore missing dependency, got %v", err)
	}
}

func TestSortEntryPointsStrictModeRejectsMissingDependency(t *testing.T) {
	eps := []EntryPoint{
		NewEntryPoint("a", StageFragment, "", NamedDependency{Name: "ghost", Type: After}),
	}
	if _, err := SortEntryPoints(eps, true); err == nil {
		t.Fatal("expected strict mode to reject missing dependency")
	}
}

func TestSortEntryPointsRejectsCycle(t *testing.T) {
	eps := []EntryPoint{
		NewEntryPoint("a", StageFragment, "", NamedDependency{Name: "b", Type: After}),
		NewEntryPoint("b", StageFragment, "", NamedDependency{Name: "a", Type: After}),
	}
	if _, err := SortEntryPoints(eps, false); err == nil {
		t.Fatal("expected a cycle to be rejected")
	}
}
