package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"HelpBot/bot"
	"HelpBot/commands"
	"HelpBot/commands/admin"
	"HelpBot/commands/general"
	"HelpBot/commands/help"
	"HelpBot/commands/imaging"
	"HelpBot/config"
	"HelpBot/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("bot stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	b, err := bot.NewBot(cfg.Token, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	categories, err := commands.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		return err
	}

	registry := commands.NewRegistry()
	ctrl := help.NewController(registry, categories, b, logger.Named("help"), help.Options{
		IdleTimeout: cfg.IdleTimeout,
		MaxLifetime: cfg.MaxLifetime,
		Prefix:      cfg.Prefix,
		SupportURL:  cfg.SupportURL,
		VoteURL:     cfg.VoteURL,
		BannerURL:   cfg.BannerURL,
	})
	defer ctrl.Shutdown()

	for _, module := range []*commands.ModuleInfo{
		help.Module(ctrl),
		general.Module(),
		imaging.Module(),
		admin.Module(admin.NewToggler(registry, categories)),
	} {
		if err := registry.RegisterModule(module); err != nil {
			return err
		}
	}
	if err := ctrl.Validate(); err != nil {
		logger.Warn("help menu misconfigured", zap.Error(err))
	}

	limiter := utils.NewRateLimiter(cfg.RateLimit, time.Minute)
	dispatcher := commands.NewDispatcher(b, registry, b, limiter, cfg.Prefix)
	dispatcher.OnComponent(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		ctrl.HandleComponent(s, i)
	})

	b.Client.AddHandler(dispatcher.HandleMessage)
	b.Client.AddHandler(dispatcher.HandleInteraction)
	b.Client.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info("connected", zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)))
	})

	if err := b.Client.Open(); err != nil {
		return err
	}

	err = commands.SyncSlashCommands(b.Client, b.Client.State.User.ID, cfg.GuildID, registry.ApplicationCommands(), logger.Named("slash"))
	if err != nil {
		logger.Error("sync slash commands", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneLimiter(ctx, limiter)

	logger.Info("bot is running, press Ctrl+C to exit", zap.String("prefix", cfg.Prefix))
	<-ctx.Done()
	logger.Info("shutting down", zap.Int("open_menus", ctrl.ActiveSessions()))
	return nil
}

func pruneLimiter(ctx context.Context, limiter *utils.RateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune()
		}
	}
}
