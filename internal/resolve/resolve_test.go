package resolve

import "testing"

func TestResolveNoConflict(t *testing.T) {
	existing := NameSet([]string{"Workout", "Chill"})

	// Policy is irrelevant when the name is free
	for _, policy := range []Policy{PolicyAsk, PolicyRename, PolicyOverwrite, PolicySkip} {
		action := Resolve("Road Trip", existing, policy)
		if action.Kind != ActionCreate {
			t.Errorf("policy %s: kind = %v, want ActionCreate", policy, action.Kind)
		}
		if action.Name != "Road Trip" {
			t.Errorf("policy %s: name = %q, want %q", policy, action.Name, "Road Trip")
		}
	}
}

func TestResolveConflict(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		existing []string
		policy   Policy
		wantKind ActionKind
		wantName string
	}{
		{
			name:     "rename appends suffix",
			target:   "Favorites",
			existing: []string{"Favorites"},
			policy:   PolicyRename,
			wantKind: ActionCreate,
			wantName: "Favorites (2)",
		},
		{
			name:     "rename skips taken suffixes",
			target:   "Favorites",
			existing: []string{"Favorites", "Favorites (2)"},
			policy:   PolicyRename,
			wantKind: ActionCreate,
			wantName: "Favorites (3)",
		},
		{
			name:     "rename fills gap",
			target:   "Favorites",
			existing: []string{"Favorites", "Favorites (3)"},
			policy:   PolicyRename,
			wantKind: ActionCreate,
			wantName: "Favorites (2)",
		},
		{
			name:     "overwrite targets existing name",
			target:   "Favorites",
			existing: []string{"Favorites"},
			policy:   PolicyOverwrite,
			wantKind: ActionReplace,
			wantName: "Favorites",
		},
		{
			name:     "skip leaves existing untouched",
			target:   "Favorites",
			existing: []string{"Favorites"},
			policy:   PolicySkip,
			wantKind: ActionSkip,
			wantName: "Favorites",
		},
		{
			name:     "ask defers to caller",
			target:   "Favorites",
			existing: []string{"Favorites"},
			policy:   PolicyAsk,
			wantKind: ActionNeedsDecision,
			wantName: "Favorites",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := Resolve(tt.target, NameSet(tt.existing), tt.policy)
			if action.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", action.Kind, tt.wantKind)
			}
			if action.Name != tt.wantName {
				t.Errorf("name = %q, want %q", action.Name, tt.wantName)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	existing := NameSet([]string{"Mix", "Mix (2)", "Mix (4)"})
	first := Resolve("Mix", existing, PolicyRename)
	for i := 0; i < 10; i++ {
		again := Resolve("Mix", existing, PolicyRename)
		if again != first {
			t.Fatalf("resolution changed between runs: %+v vs %+v", again, first)
		}
	}
	if first.Name != "Mix (3)" {
		t.Errorf("name = %q, want %q", first.Name, "Mix (3)")
	}
}

func TestResolveCaseSensitive(t *testing.T) {
	// Name comparison is exact; differing case is not a conflict
	action := Resolve("favorites", NameSet([]string{"Favorites"}), PolicySkip)
	if action.Kind != ActionCreate {
		t.Errorf("kind = %v, want ActionCreate", action.Kind)
	}
}
