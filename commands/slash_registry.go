package commands

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// ApplicationCommandAPI is the part of *discordgo.Session used to sync slash commands.
type ApplicationCommandAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandEdit(appID, guildID, cmdID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// commandNeedsUpdate checks if an existing command needs to be updated
func commandNeedsUpdate(existing, desired *discordgo.ApplicationCommand) bool {
	if existing.Name != desired.Name || existing.Description != desired.Description {
		return true
	}
	return optionsDiffer(existing.Options, desired.Options)
}

func optionsDiffer(existing, desired []*discordgo.ApplicationCommandOption) bool {
	if len(existing) != len(desired) {
		return true
	}
	for i, option := range existing {
		want := desired[i]
		if option.Name != want.Name ||
			option.Description != want.Description ||
			option.Type != want.Type ||
			option.Required != want.Required {
			return true
		}
		if len(option.Choices) != len(want.Choices) {
			return true
		}
		for j, choice := range option.Choices {
			if choice.Name != want.Choices[j].Name {
				return true
			}
		}
		if optionsDiffer(option.Options, want.Options) {
			return true
		}
	}
	return false
}

// SyncSlashCommands creates, updates and deletes application commands so the
// remote set matches desired.
func SyncSlashCommands(api ApplicationCommandAPI, appID, guildID string, desired []*discordgo.ApplicationCommand, log *zap.Logger) error {
	existingCommands, err := api.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}

	existingMap := make(map[string]*discordgo.ApplicationCommand, len(existingCommands))
	for _, cmd := range existingCommands {
		existingMap[cmd.Name] = cmd
	}

	for _, want := range desired {
		if existing, exists := existingMap[want.Name]; exists {
			if commandNeedsUpdate(existing, want) {
				log.Info("updating slash command", zap.String("command", want.Name))
				if _, err := api.ApplicationCommandEdit(appID, guildID, existing.ID, want); err != nil {
					log.Error("update slash command", zap.String("command", want.Name), zap.Error(err))
				}
			}
			// still wanted
			delete(existingMap, want.Name)
			continue
		}

		log.Info("creating slash command", zap.String("command", want.Name))
		if _, err := api.ApplicationCommandCreate(appID, guildID, want); err != nil {
			log.Error("create slash command", zap.String("command", want.Name), zap.Error(err))
		}
	}

	for _, cmd := range existingMap {
		log.Info("deleting unused slash command", zap.String("command", cmd.Name))
		if err := api.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			log.Error("delete slash command", zap.String("command", cmd.Name), zap.Error(err))
		}
	}
	return nil
}
