package commands

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"

	"github.com/wordlestats/wordlebot/wordlebot"
	"github.com/wordlestats/wordlebot/wordlebot/config"
)

type Route int

const (
	RouteNone Route = iota
	RouteStats
	RouteResult
	RouteWeekly
	RouteFetch
	RouteAdd
	RouteLeaderboard
	RouteVersion
)

var routes = map[string]Route{
	"stats":       RouteStats,
	"result":      RouteResult,
	"weekly":      RouteWeekly,
	"fetch":       RouteFetch,
	"add":         RouteAdd,
	"leaderboard": RouteLeaderboard,
	"version":     RouteVersion,
}

var routeNames = func() []string {
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// ChatCommand is a command typed as a plain message, "/stats @someone".
type ChatCommand struct {
	Route Route
	Name  string
	Args  string
}

// ParseChatCommand reports whether content starts with prefix and, if so,
// which route its first word names. Unknown names come back as RouteNone.
func ParseChatCommand(prefix, content string) (ChatCommand, bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return ChatCommand{}, false
	}
	rest := strings.TrimPrefix(content, prefix)
	name, args := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		name, args = rest[:i], rest[i:]
	}
	if name == "" {
		return ChatCommand{}, false
	}
	name = strings.ToLower(name)
	return ChatCommand{
		Route: routes[name],
		Name:  name,
		Args:  strings.TrimSpace(args),
	}, true
}

// Shorter names, like "/s", get no suggestion.
const minSuggestLength = 3

// Suggest returns the known command closest to name.
func Suggest(name string) (string, bool) {
	if utf8.RuneCountInString(name) < minSuggestLength {
		return "", false
	}
	matches := fuzzy.Find(strings.ToLower(name), routeNames)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}

// Chat executes chat commands against the same replies the slash commands
// use.
type Chat struct {
	bot       *wordlebot.Bot
	responder *Responder
}

func NewChat(b *wordlebot.Bot) *Chat {
	return &Chat{bot: b, responder: NewResponder(b.Tracker)}
}

// Timeout is how long cmd may run.
func (c *Chat) Timeout(cmd ChatCommand) time.Duration {
	if cmd.Route == RouteFetch {
		return config.FetchTimeout
	}
	return config.CommandExecutionTimeout
}

// Execute runs cmd on behalf of msg's author and returns the reply. An
// empty reply means nothing should be sent.
func (c *Chat) Execute(ctx context.Context, cmd ChatCommand, msg discord.Message) (string, error) {
	target := msg.Author
	if len(msg.Mentions) > 0 {
		target = msg.Mentions[0]
	}

	switch cmd.Route {
	case RouteStats:
		return c.responder.Stats(ctx, target.ID.String(), target.EffectiveName())
	case RouteWeekly:
		return c.responder.Weekly(ctx, target.ID.String(), target.EffectiveName())
	case RouteResult:
		game, ok := gameArg(cmd.Args)
		if !ok {
			return "Usage: " + c.bot.Cfg.Bot.CommandPrefix + "result <game> [@user]", nil
		}
		return c.responder.Result(ctx, game, target.ID.String(), target.EffectiveName())
	case RouteAdd:
		return c.responder.Add(ctx, msg.Author.ID.String(), msg.Author.EffectiveName(), cmd.Args)
	case RouteFetch:
		channelID := c.bot.Cfg.Bot.ResultsChannel
		if channelID == 0 {
			channelID = msg.ChannelID
		}
		return c.responder.Fetch(ctx, channelID)
	case RouteLeaderboard:
		standings, err := c.responder.Leaderboard(ctx)
		if err != nil {
			return GenericError, err
		}
		return FormatLeaderboardPage(standings, 0, config.LeaderboardPageSize), nil
	case RouteVersion:
		return VersionText(c.bot), nil
	}

	if suggestion, ok := Suggest(cmd.Name); ok {
		return "Unknown command `" + cmd.Name + "`. Did you mean `" + c.bot.Cfg.Bot.CommandPrefix + suggestion + "`?", nil
	}
	return "", nil
}

// gameArg reads the first argument as a game number; "1,234" is accepted.
func gameArg(args string) (int, bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, false
	}
	game, err := strconv.Atoi(strings.ReplaceAll(fields[0], ",", ""))
	if err != nil {
		return 0, false
	}
	return game, true
}

// NotFoundHandler answers interactions no route matched.
func NotFoundHandler(e *handler.InteractionEvent) error {
	if e.Type() != discord.InteractionTypeApplicationCommand {
		return nil
	}
	return e.Respond(discord.InteractionResponseTypeCreateMessage, discord.MessageCreate{
		Content: "Unknown command.",
		Flags:   discord.MessageFlagEphemeral,
	})
}
