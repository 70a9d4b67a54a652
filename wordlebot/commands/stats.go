package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordlebot/wordlebot"
)

var Stats = discord.SlashCommandCreate{
	Name:        "stats",
	Description: "Get Wordle stats for a user",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to get stats for",
		},
	},
}

func StatsHandler(b *wordlebot.Bot) handler.CommandHandler {
	r := NewResponder(b.Tracker)
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		user := targetUser(e)
		content, err := r.Stats(ctx, user.ID.String(), user.EffectiveName())
		return reply(e, content, err)
	}
}

var Weekly = discord.SlashCommandCreate{
	Name:        "weekly",
	Description: "Get weekly Wordle results for a user",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to get weekly results for",
		},
	},
}

func WeeklyHandler(b *wordlebot.Bot) handler.CommandHandler {
	r := NewResponder(b.Tracker)
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		user := targetUser(e)
		content, err := r.Weekly(ctx, user.ID.String(), user.EffectiveName())
		return reply(e, content, err)
	}
}
