package admin

import (
	"testing"

	"HelpBot/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToggler(t *testing.T) *Toggler {
	t.Helper()
	reg := commands.NewRegistry()
	require.NoError(t, reg.RegisterModule(&commands.ModuleInfo{
		Name:     "Utility",
		Category: "UTILITY",
		Commands: []commands.CommandInfo{
			{Name: "help", Aliases: []string{"h"}},
			{Name: "ping", Aliases: []string{"latency"}},
		},
		SlashCommands: []commands.SlashCommandInfo{{Name: "stats"}},
	}))
	tg := NewToggler(reg, commands.DefaultCategories())
	require.NoError(t, reg.RegisterModule(Module(tg)))
	return tg
}

func TestTargetResolvesNames(t *testing.T) {
	tg := testToggler(t)

	tests := []struct {
		args       []string
		kind, name string
	}{
		{[]string{"disable", "command", "ping"}, "command", "ping"},
		{[]string{"disable", "COMMAND", "latency"}, "command", "ping"},
		{[]string{"disable", "command", "stats"}, "command", "stats"},
		{[]string{"enable", "category", "Image"}, "category", "image"},
	}
	for _, tt := range tests {
		kind, name, msg := tg.target(tt.args)
		assert.Empty(t, msg, tt.args)
		assert.Equal(t, tt.kind, kind, tt.args)
		assert.Equal(t, tt.name, name, tt.args)
	}
}

func TestTargetRejects(t *testing.T) {
	tg := testToggler(t)

	tests := map[string][]string{
		"Usage: `disable command <command>` or `disable category <category>`": {"disable", "command"},
		"Invalid type. Use 'command' or 'category'.":                          {"disable", "module", "x"},
		"Unknown command `nope`.":                                             {"disable", "command", "nope"},
		"You cannot disable this command.":                                    {"disable", "command", "h"},
		"Invalid category.":                                                   {"disable", "category", "music"},
	}
	for want, args := range tests {
		_, _, msg := tg.target(args)
		assert.Equal(t, want, msg, args)
	}

	_, _, msg := tg.target([]string{"disable", "command", "enable"})
	assert.Equal(t, "You cannot disable this command.", msg)
}
