package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/wordlestats/wordlebot/wordlebot"
	"github.com/wordlestats/wordlebot/wordlebot/config"
)

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "Rank every player by win percentage and average guesses",
}

func LeaderboardHandler(b *wordlebot.Bot) handler.CommandHandler {
	r := NewResponder(b.Tracker)
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		standings, err := r.Leaderboard(ctx)
		if err != nil {
			return reply(e, GenericError, err)
		}
		if len(standings) == 0 {
			return reply(e, FormatLeaderboardPage(nil, 0, config.LeaderboardPageSize), nil)
		}

		totalPages := PageCount(len(standings), config.LeaderboardPageSize)
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				embed.
					SetTitle("Wordle Leaderboard").
					SetDescription(FormatLeaderboardPage(standings, page, config.LeaderboardPageSize)).
					SetColor(config.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • %d players", page+1, totalPages, len(standings)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
