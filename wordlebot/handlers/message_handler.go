package handlers

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/wordlestats/wordlebot/wordlebot"
	"github.com/wordlestats/wordlebot/wordlebot/commands"
	"github.com/wordlestats/wordlebot/wordlebot/config"
	"github.com/wordlestats/wordlebot/wordlebot/tracker"
)

// MessageREST is the part of the REST client chat messages are answered
// through.
type MessageREST interface {
	AddReaction(channelID snowflake.ID, messageID snowflake.ID, emoji string, opts ...rest.RequestOpt) error
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// MessageProcessor handles messages seen over the gateway: chat commands get
// a reply, Wordle results get recorded and reacted to.
type MessageProcessor struct {
	cfg     wordlebot.BotConfig
	tracker *tracker.Tracker
	chat    *commands.Chat
	rest    MessageREST
}

func NewMessageProcessor(b *wordlebot.Bot, r MessageREST) *MessageProcessor {
	return &MessageProcessor{
		cfg:     b.Cfg.Bot,
		tracker: b.Tracker,
		chat:    commands.NewChat(b),
		rest:    r,
	}
}

func MessageHandler(b *wordlebot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.MessageCreate) {
		p := NewMessageProcessor(b, e.Client().Rest())
		if err := p.Process(context.Background(), e.Message); err != nil {
			slog.Error("Failed to handle message",
				slog.String("type", "error"),
				slog.String("message_id", e.MessageID.String()),
				slog.String("channel_id", e.ChannelID.String()),
				slog.Any("error", err))
		}
	})
}

func (p *MessageProcessor) Process(ctx context.Context, msg discord.Message) error {
	if msg.Author.Bot || msg.WebhookID != nil {
		return nil
	}

	if cmd, ok := commands.ParseChatCommand(p.cfg.CommandPrefix, msg.Content); ok {
		return p.runCommand(ctx, cmd, msg)
	}

	if p.cfg.ResultsChannel != 0 && msg.ChannelID != p.cfg.ResultsChannel {
		return nil
	}
	return p.record(ctx, msg)
}

func (p *MessageProcessor) runCommand(ctx context.Context, cmd commands.ChatCommand, msg discord.Message) error {
	ctx, cancel := context.WithTimeout(ctx, p.chat.Timeout(cmd))
	defer cancel()

	slog.Info("Chat command received",
		slog.String("type", "cmd"),
		slog.String("name", cmd.Name),
		slog.String("user_id", msg.Author.ID.String()),
		slog.String("user_name", msg.Author.Username))

	content, err := p.chat.Execute(ctx, cmd, msg)
	if content != "" {
		if _, sendErr := p.rest.CreateMessage(msg.ChannelID, discord.MessageCreate{
			Content:          content,
			MessageReference: &discord.MessageReference{MessageID: &msg.ID},
		}, rest.WithCtx(ctx)); sendErr != nil && err == nil {
			err = sendErr
		}
	}
	return err
}

func (p *MessageProcessor) record(ctx context.Context, msg discord.Message) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	outcome, result, err := p.tracker.Record(ctx, msg.Author.ID.String(), msg.Content, msg.CreatedAt)
	if err != nil {
		p.react(msg, config.FailedReaction)
		return err
	}

	switch outcome {
	case tracker.Recorded:
		p.react(msg, config.RecordedReaction)
	case tracker.Duplicate:
		slog.Debug("Duplicate result ignored",
			slog.String("type", "db"),
			slog.String("user_id", msg.Author.ID.String()),
			slog.Int("game", result.Game))
		p.react(msg, config.DuplicateReaction)
	}
	return nil
}

// react is best effort; a missing permission must not fail the message.
func (p *MessageProcessor) react(msg discord.Message, emoji string) {
	if err := p.rest.AddReaction(msg.ChannelID, msg.ID, emoji); err != nil {
		slog.Warn("Failed to add reaction",
			slog.String("type", "sys"),
			slog.String("message_id", msg.ID.String()),
			slog.String("emoji", emoji),
			slog.Any("error", err))
	}
}
