package cli

import "testing"

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"reason", "generate", "pick", "categories", "stats", "state",
		"like", "unlike", "save", "unsave", "list", "recent",
		"export", "import", "serve",
	}
	have := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing command %q", name)
		}
	}
}

func TestRecentHasClear(t *testing.T) {
	recent, _, err := RootCmd.Find([]string{"recent", "clear"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if recent.Name() != "clear" {
		t.Errorf("expected clear, got %q", recent.Name())
	}
}

func TestTextArg(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"  "}, ""},
		{[]string{" Nope. "}, "Nope."},
	}
	for _, tt := range tests {
		if got := textArg(tt.args); got != tt.want {
			t.Errorf("textArg(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
