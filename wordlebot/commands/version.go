package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordlebot/wordlebot"
)

var Version = discord.SlashCommandCreate{
	Name:        "version",
	Description: "Show the running build",
}

func VersionHandler(b *wordlebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{Content: VersionText(b)})
	}
}

func VersionText(b *wordlebot.Bot) string {
	return fmt.Sprintf("Version: %s\nCommit: %s", b.Version, b.Commit)
}
