package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordlebot/wordlebot"
)

var Add = discord.SlashCommandCreate{
	Name:        "add",
	Description: "Record a Wordle result for yourself",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "result",
			Description: "The shared result text, e.g. Wordle 1,234 3/6 followed by the board",
			Required:    true,
		},
	},
}

func AddHandler(b *wordlebot.Bot) handler.CommandHandler {
	r := NewResponder(b.Tracker)
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		text := e.SlashCommandInteractionData().String("result")
		user := e.User()
		content, err := r.Add(ctx, user.ID.String(), user.EffectiveName(), text)
		return reply(e, content, err)
	}
}
