package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordlebot/wordlebot"
	"github.com/wordlestats/wordlebot/wordlebot/config"
	"github.com/wordlestats/wordlebot/wordlebot/logger"
)

var Fetch = discord.SlashCommandCreate{
	Name:        "fetch",
	Description: "Re-read every result in the channel and rebuild stats",
}

// FetchHandler rebuilds stats from the results channel, or the invoking
// channel when none is configured. Paging a long history takes far longer
// than an interaction token allows for the first reply, so it defers.
func FetchHandler(b *wordlebot.Bot) handler.CommandHandler {
	r := NewResponder(b.Tracker)
	return func(e *handler.CommandEvent) error {
		start := time.Now()
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		channelID := b.Cfg.Bot.ResultsChannel
		if channelID == 0 {
			channelID = e.ChannelID()
		}
		slog.Info("Fetch started",
			slog.String("type", "cmd"),
			slog.String("name", "fetch"),
			slog.String("user_id", e.User().ID.String()),
			slog.String("channel_id", channelID.String()))

		ctx, cancel := context.WithTimeout(context.Background(), config.FetchTimeout)
		defer cancel()

		content, err := r.Fetch(ctx, channelID)
		logger.LogCommand("fetch", time.Since(start), err)

		if _, updErr := e.UpdateInteractionResponse(discord.MessageUpdate{Content: &content}); updErr != nil {
			return updErr
		}
		return err
	}
}
