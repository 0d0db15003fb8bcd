package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/FatihZee/tele-bot/domain/platform"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
	"github.com/FatihZee/tele-bot/usecase"
)

const pollTimeout = 10 * time.Second

type IBotHandler interface {
	Start()
	Stop()
}

type BotHandler struct {
	bot          *tele.Bot
	mediaUsecase usecase.IMediaUsecase
	matcher      *platform.Matcher
}

// NewBotHandler connects to the Telegram API and registers the command and
// text handlers. Handler errors end up in OnError; they are logged and never
// stop the poller.
func NewBotHandler(token string, mediaUsecase usecase.IMediaUsecase, matcher *platform.Matcher) (IBotHandler, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		OnError: func(err error, c tele.Context) {
			entry := logger.GetLogger().WithField("error", err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Bot handler returned an error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	botHandler := &BotHandler{bot: b, mediaUsecase: mediaUsecase, matcher: matcher}
	botHandler.registerHandlers()
	return botHandler, nil
}

func (h *BotHandler) registerHandlers() {
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/help", h.handleHelp)
	h.bot.Handle("/platforms", h.handlePlatforms)
	h.bot.Handle(tele.OnText, h.handleText)
}

func (h *BotHandler) handleStart(c tele.Context) error {
	return c.Send(fmt.Sprintf(
		"Hi! Paste a media link and I'll send the file back to you. I can download from: %s. Try /help for more.",
		h.matcher.SupportedPlatforms(),
	))
}

func (h *BotHandler) handleHelp(c tele.Context) error {
	return c.Send(
		"Paste a link to a post and I'll fetch the media for you.\n" +
			"/platforms shows where I can download from.",
	)
}

func (h *BotHandler) handlePlatforms(c tele.Context) error {
	return c.Send(fmt.Sprintf("I can download media from: %s", h.matcher.SupportedPlatforms()))
}

func (h *BotHandler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if !looksLikeLink(text) {
		return c.Send("That doesn't look like a link. Paste a media URL, or try /help.")
	}
	return h.mediaUsecase.ProcessLink(context.Background(), NewTeleSender(c), text)
}

// looksLikeLink decides whether a plain text message should be treated as a
// candidate media URL.
func looksLikeLink(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "http") || strings.HasPrefix(lower, "www.")
}

func (h *BotHandler) Start() {
	logger.GetLogger().WithField("bot", h.bot.Me.Username).Info("Bot long polling started")
	h.bot.Start()
}

func (h *BotHandler) Stop() {
	h.bot.Stop()
}
