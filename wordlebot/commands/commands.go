package commands

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordlebot/wordlebot/config"
)

var Commands = []discord.ApplicationCommandCreate{
	Stats,
	Result,
	Weekly,
	Fetch,
	Add,
	Leaderboard,
	Version,
}

// targetUser is the "user" option when given, the caller otherwise.
func targetUser(e *handler.CommandEvent) discord.User {
	if u, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
		return u
	}
	return e.User()
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
}

// reply sends content and passes err through so the logging wrapper sees it.
func reply(e *handler.CommandEvent, content string, err error) error {
	if sendErr := e.CreateMessage(discord.MessageCreate{Content: content}); sendErr != nil {
		return sendErr
	}
	return err
}
