// Package discord lets the user record notes by DMing the bot and delivers
// reminders and finished summaries back to them.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/chris/standup/internal/store"
)

// maxMessageLen is Discord's per-message character limit.
const maxMessageLen = 2000

// Tracker is the part of the core service the bot drives.
type Tracker interface {
	Today() string
	Record(ctx context.Context, text string, at time.Time) (store.Entry, error)
	Entries(ctx context.Context, day string) ([]store.Entry, error)
	Summarize(ctx context.Context, day string) (string, error)
}

// Settings remembers who to DM.
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type Bot struct {
	session *discordgo.Session
	handler *Handler
	log     *zap.SugaredLogger
}

func NewBot(token string, h *Handler, log *zap.SugaredLogger) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}

	bot := &Bot{session: s, handler: h, log: log}
	s.AddHandler(bot.onMessage)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("opening Discord connection: %w", err)
	}

	log.Infof("discord: bot connected as %s", s.State.User.Username)
	return bot, nil
}

// SendDM opens (or reuses) the DM channel with userID and sends content,
// split to fit Discord's message limit.
func (b *Bot) SendDM(userID, content string) error {
	ch, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("opening DM channel: %w", err)
	}
	for _, chunk := range splitMessage(content, maxMessageLen) {
		if _, err := b.session.ChannelMessageSend(ch.ID, chunk); err != nil {
			return fmt.Errorf("sending DM: %w", err)
		}
	}
	return nil
}

func (b *Bot) Close() {
	b.session.Close()
}
