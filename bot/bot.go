package bot

import (
	"database/sql"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/go-resty/resty/v2"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Bot struct {
	Db     *sql.DB
	Client *discordgo.Session
	HTTP   *resty.Client
	Log    *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS disabled_commands (
    guild_id TEXT NOT NULL,
    name     TEXT NOT NULL,
    type     TEXT NOT NULL CHECK (type IN ('command', 'category')),
    PRIMARY KEY (guild_id, name)
);`

func NewBot(token string, dbURL string, logger *zap.Logger) (*Bot, error) {
	client, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	client.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Bot{
		Db:     db,
		Client: client,
		HTTP:   NewHTTPClient(),
		Log:    logger,
	}, nil
}

func (b *Bot) Close() error {
	var firstErr error
	if b.Client != nil {
		if err := b.Client.Close(); err != nil {
			firstErr = err
		}
	}
	if b.Db != nil {
		if err := b.Db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
