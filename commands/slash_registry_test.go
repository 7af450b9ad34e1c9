package commands

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCommandAPI struct {
	existing []*discordgo.ApplicationCommand
	created  []string
	edited   []string
	deleted  []string
}

func (f *fakeCommandAPI) ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	return f.existing, nil
}

func (f *fakeCommandAPI) ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	f.created = append(f.created, cmd.Name)
	return cmd, nil
}

func (f *fakeCommandAPI) ApplicationCommandEdit(appID, guildID, cmdID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	f.edited = append(f.edited, cmdID)
	return cmd, nil
}

func (f *fakeCommandAPI) ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error {
	f.deleted = append(f.deleted, cmdID)
	return nil
}

func TestSyncSlashCommands(t *testing.T) {
	api := &fakeCommandAPI{
		existing: []*discordgo.ApplicationCommand{
			{ID: "1", Name: "help", Description: "command help menu"},
			{ID: "2", Name: "ping", Description: "old description"},
			{ID: "3", Name: "quota", Description: "gone"},
		},
	}
	desired := []*discordgo.ApplicationCommand{
		{Name: "help", Description: "command help menu"},
		{Name: "ping", Description: "Shows the bot latency"},
		{Name: "filter", Description: "Apply a filter"},
	}

	require.NoError(t, SyncSlashCommands(api, "app", "", desired, zap.NewNop()))

	assert.Equal(t, []string{"filter"}, api.created)
	assert.Equal(t, []string{"2"}, api.edited)
	assert.Equal(t, []string{"3"}, api.deleted)
}

func TestCommandNeedsUpdateComparesChoices(t *testing.T) {
	base := func(choices ...string) *discordgo.ApplicationCommand {
		opt := &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "d"}
		for _, c := range choices {
			opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{Name: c, Value: c})
		}
		return &discordgo.ApplicationCommand{Name: "filter", Description: "f", Options: []*discordgo.ApplicationCommandOption{opt}}
	}

	assert.False(t, commandNeedsUpdate(base("a", "b"), base("a", "b")))
	assert.True(t, commandNeedsUpdate(base("a"), base("a", "b")))
	assert.True(t, commandNeedsUpdate(base("a", "c"), base("a", "b")))
}
