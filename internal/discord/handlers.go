package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/chris/standup/internal/db"
	"github.com/chris/standup/internal/tracker"
)

const helpText = "Send me a note and I'll add it to today's log.\n" +
	"`!today` lists today's notes\n" +
	"`!summary` writes today's standup update\n" +
	"`!help` shows this message"

// Handler turns an incoming message into replies. It knows nothing about
// the Discord session so it can be driven directly.
type Handler struct {
	tracker  Tracker
	settings Settings
	log      *zap.SugaredLogger
}

func NewHandler(t Tracker, s Settings, log *zap.SugaredLogger) *Handler {
	return &Handler{tracker: t, settings: s, log: log}
}

// Message is an incoming message already addressed to the bot.
type Message struct {
	AuthorID string
	IsDM     bool
	Content  string
	SentAt   time.Time
}

// Handle returns the replies to send back, in order.
func (h *Handler) Handle(ctx context.Context, m Message) []string {
	if m.IsDM {
		if err := h.settings.SetSetting(db.KeyDiscordUserID, m.AuthorID); err != nil {
			h.log.Warnf("discord: remembering DM user: %v", err)
		}
	}

	content := strings.TrimSpace(m.Content)
	if content == "" {
		return nil
	}

	switch strings.ToLower(content) {
	case "!help":
		return []string{helpText}
	case "!today":
		return splitMessage(h.today(ctx), maxMessageLen)
	case "!summary":
		text, err := h.tracker.Summarize(ctx, h.tracker.Today())
		if err != nil {
			h.log.Errorf("discord: summarize: %v", err)
			return []string{"Something went wrong. Try again?"}
		}
		return splitMessage(text, maxMessageLen)
	}

	if _, err := h.tracker.Record(ctx, content, m.SentAt); err != nil {
		if errors.Is(err, tracker.ErrEmptyNote) {
			return nil
		}
		h.log.Errorf("discord: recording note: %v", err)
		return []string{"Couldn't save that note. Try again?"}
	}
	return []string{"Noted."}
}

func (h *Handler) today(ctx context.Context) string {
	entries, err := h.tracker.Entries(ctx, h.tracker.Today())
	if err != nil {
		h.log.Errorf("discord: listing notes: %v", err)
		return "Something went wrong. Try again?"
	}
	if len(entries) == 0 {
		return "No notes yet today."
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. [%s] %s", i+1, e.Timestamp.Local().Format("3:04 PM"), e.Text)
	}
	return b.String()
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore own messages
	if m.Author.ID == s.State.User.ID {
		return
	}

	// Only respond to DMs or when mentioned
	isDM := m.GuildID == ""
	isMentioned := false
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			isMentioned = true
			break
		}
	}
	if !isDM && !isMentioned {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s.ChannelTyping(m.ChannelID)
	replies := b.handler.Handle(ctx, Message{
		AuthorID: m.Author.ID,
		IsDM:     isDM,
		Content:  stripMention(m.Content, s.State.User.ID),
		SentAt:   m.Timestamp,
	})
	for _, r := range replies {
		if _, err := s.ChannelMessageSend(m.ChannelID, r); err != nil {
			b.log.Warnf("discord: reply failed: %v", err)
			return
		}
	}
}

func stripMention(s, userID string) string {
	s = strings.ReplaceAll(s, "<@"+userID+">", "")
	s = strings.ReplaceAll(s, "<@!"+userID+">", "")
	return s
}

func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		end := maxLen
		if end > len(s) {
			end = len(s)
		}
		// Try to split at a newline, else keep runes whole
		if idx := strings.LastIndex(s[:end], "\n"); idx > 0 {
			end = idx + 1
		} else {
			for end < len(s) && end > 1 && !utf8.RuneStart(s[end]) {
				end--
			}
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}
