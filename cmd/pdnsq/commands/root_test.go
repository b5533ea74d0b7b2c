package commands

import "testing"

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := GetRootCmd()

	want := []string{"version", "completion", "info", "backend"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestRootCommandFlagShorthands(t *testing.T) {
	root := GetRootCmd()

	shorthands := []string{"r", "n", "i", "N", "R", "A", "B", "c", "l", "L", "M", "O", "f", "m", "p", "j", "s", "S", "k", "V", "u", "8", "J", "4", "6", "U"}
	for _, sh := range shorthands {
		if root.Flags().ShorthandLookup(sh) == nil {
			t.Errorf("root command missing -%s flag", sh)
		}
	}
}

func TestRootCommandLongOnlyOverrides(t *testing.T) {
	root := GetRootCmd()

	for _, name := range []string{"kind", "server", "apikey", "timeout"} {
		if root.Flags().Lookup(name) == nil {
			t.Errorf("root command missing --%s flag", name)
		}
	}
}

func TestBackendCommandHasSubcommands(t *testing.T) {
	want := []string{"add", "use", "list", "remove"}
	for _, name := range want {
		found := false
		for _, c := range backendCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("backend command missing subcommand %q", name)
		}
	}
}
