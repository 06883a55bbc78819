package actions

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	engagementmodule "github.com/stake-plus/guildpulse/src/actions/engagement"
	gatewaymodule "github.com/stake-plus/guildpulse/src/actions/gateway"
	suggestionsmodule "github.com/stake-plus/guildpulse/src/actions/suggestions"
	apimodule "github.com/stake-plus/guildpulse/src/api"
	"github.com/stake-plus/guildpulse/src/api/webserver"
	sharedconfig "github.com/stake-plus/guildpulse/src/config"
	shareddiscord "github.com/stake-plus/guildpulse/src/discord"
	sharedsuggestions "github.com/stake-plus/guildpulse/src/suggestions"
	"go.uber.org/zap"
)

// Runtime carries the shared clients built by main.
type Runtime struct {
	Session *discordgo.Session
	// Redis is nil when no Redis URL is configured.
	Redis *redis.Client
	Log   *zap.Logger
}

// StartAll wires up enabled action modules and starts the manager. The
// gateway module is added last so the session opens with every handler
// attached, and is therefore the first to stop.
func StartAll(ctx context.Context, rt Runtime) (*Manager, error) {
	log := rt.Log
	mgr := NewManager(log)
	platform := shareddiscord.NewPlatform(rt.Session, log)

	var (
		commands []string
		stats    webserver.Snapshotter
		registry sharedsuggestions.Registry
	)

	engagementCfg := sharedconfig.LoadEngagementConfig()
	if engagementCfg.Enabled {
		mod := engagementmodule.NewModule(&engagementCfg, rt.Session, platform, log)
		stats = mod.Tracker()
		commands = append(commands, mod.Commands()...)
		if err := mgr.Add(mod); err != nil {
			return nil, fmt.Errorf("actions: add engagement module: %w", err)
		}
	} else {
		log.Info("actions: engagement module disabled via configuration")
	}

	suggestionCfg := sharedconfig.LoadSuggestionConfig()
	if suggestionCfg.Enabled {
		var publisher sharedsuggestions.Publisher
		if rt.Redis != nil {
			registry = sharedsuggestions.NewRedisRegistry(rt.Redis)
			publisher = sharedsuggestions.NewRedisEvents(rt.Redis)
			log.Info("actions: suggestions stored in redis")
		} else {
			registry = sharedsuggestions.NewFileRegistry(suggestionCfg.DataFile, log)
			log.Info("actions: suggestions stored in file", zap.String("file", suggestionCfg.DataFile))
		}

		mod := suggestionsmodule.NewModule(&suggestionCfg, rt.Session, platform, registry, publisher, log)
		commands = append(commands, mod.Commands()...)
		if err := mgr.Add(mod); err != nil {
			return nil, fmt.Errorf("actions: add suggestions module: %w", err)
		}
	} else {
		log.Info("actions: suggestions module disabled via configuration")
	}

	apiCfg := sharedconfig.LoadAPIConfig()
	if apiCfg.Enabled {
		if err := mgr.Add(apimodule.NewModule(&apiCfg, stats, registry, log)); err != nil {
			return nil, fmt.Errorf("actions: add api module: %w", err)
		}
	} else {
		log.Info("actions: api module disabled via configuration")
	}

	if err := mgr.Add(gatewaymodule.NewModule(sharedconfig.LoadBase(), rt.Session, commands, log)); err != nil {
		return nil, fmt.Errorf("actions: add gateway module: %w", err)
	}

	if err := mgr.Start(ctx); err != nil {
		return nil, err
	}

	return mgr, nil
}
