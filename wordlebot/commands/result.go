package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordlebot/wordlebot"
)

var Result = discord.SlashCommandCreate{
	Name:        "result",
	Description: "Get Wordle result for a game and user",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "game",
			Description: "The game number",
			Required:    true,
			MinValue:    intPtr(1),
		},
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to get the result for",
		},
	},
}

func ResultHandler(b *wordlebot.Bot) handler.CommandHandler {
	r := NewResponder(b.Tracker)
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		game := e.SlashCommandInteractionData().Int("game")
		user := targetUser(e)
		content, err := r.Result(ctx, game, user.ID.String(), user.EffectiveName())
		return reply(e, content, err)
	}
}

func intPtr(i int) *int {
	return &i
}
