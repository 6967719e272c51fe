package bot

import (
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xaenox/shopbot/internal/models"
	"github.com/xaenox/shopbot/internal/session"
)

// SessionFactory builds a session for one chat; onMessage receives every
// asynchronously appended bot message so it can be pushed to the chat.
type SessionFactory func(chatID int64, onMessage func(models.Message)) *session.Session

// Bot binds the conversational engine to Telegram. Telegram chats have no
// minimize affordance, so every chat session runs open-expanded.
type Bot struct {
	api     *tgbotapi.BotAPI
	factory SessionFactory
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*session.Session
	// Items offered via inline buttons, keyed by item ID, so callback
	// queries can be resolved without refetching the catalog.
	offered map[string]models.CatalogItem
}

func New(token string, factory SessionFactory, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:      api,
		factory:  factory,
		logger:   logger,
		sessions: make(map[int64]*session.Session),
		offered:  make(map[string]models.CatalogItem),
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		switch {
		case update.Message != nil:
			go b.handleMessage(update.Message)
		case update.CallbackQuery != nil:
			go b.handleCallback(update.CallbackQuery)
		}
	}

	return nil
}

func (b *Bot) sessionFor(chatID int64) *session.Session {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sess, ok := b.sessions[chatID]; ok {
		return sess
	}
	sess := b.factory(chatID, func(msg models.Message) {
		b.deliver(chatID, msg)
	})
	// A Telegram chat is always "open": replies are read in place.
	sess.Toggle()
	b.sessions[chatID] = sess
	return sess
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	sess := b.sessionFor(message.Chat.ID)

	if message.IsCommand() {
		b.handleCommand(sess, message)
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	// Surface the composing sub-state as a typing indicator.
	if _, err := b.api.Request(tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("Failed to send typing action", zap.Error(err))
	}

	sess.Send(text)
}

func (b *Bot) handleCommand(sess *session.Session, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(sess, message)
	case "help":
		sess.Send("help")
	case "clear":
		sess.Clear()
		b.sendMessage(message.Chat.ID, "Chat history cleared. What are you shopping for today?")
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

func (b *Bot) handleStart(sess *session.Session, message *tgbotapi.Message) {
	history := sess.History()
	welcome := "Welcome to ShopBot! 🛍\nAsk me for products in plain words and I'll search the catalog."
	if len(history) > 0 && history[0].Role == models.RoleBot {
		welcome = history[0].Text
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, welcome)
	msg.ReplyMarkup = suggestionKeyboard(sess.Suggestions())
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send welcome message",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID
	sess := b.sessionFor(chatID)

	action, itemID, ok := strings.Cut(query.Data, ":")
	if !ok {
		return
	}

	b.mu.Lock()
	item, found := b.offered[itemID]
	b.mu.Unlock()

	if !found {
		b.answerCallback(query.ID, "That product is no longer available.")
		return
	}

	switch action {
	case "cart":
		sess.AddToCart(item)
		b.answerCallback(query.ID, "Added to cart")
	case "view":
		sess.OpenProduct(item)
		b.answerCallback(query.ID, "")
	}
}

// deliver renders an appended bot message into the chat, attaching inline
// cart/detail buttons for each shown item.
func (b *Bot) deliver(chatID int64, msg models.Message) {
	text := escapeMarkdown(msg.Text)
	if msg.TotalMatched > len(msg.Items) {
		text += escapeMarkdown(fmt.Sprintf("\n\nShowing %d of %d matches.", len(msg.Items), msg.TotalMatched))
	}

	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = "MarkdownV2"
	if _, err := b.api.Send(out); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}

	for _, item := range msg.Items {
		b.mu.Lock()
		b.offered[item.ID] = item
		b.mu.Unlock()
		b.sendItemCard(chatID, item)
	}
}

func (b *Bot) sendItemCard(chatID int64, item models.CatalogItem) {
	card := fmt.Sprintf("*%s*\n₹%.0f · ★%.1f\n%s",
		escapeMarkdown(item.Name),
		item.Price,
		item.Rating,
		escapeMarkdown(item.Description))
	if len(item.Features) > 0 {
		card += "\n" + escapeMarkdown(strings.Join(item.Features, " · "))
	}

	msg := tgbotapi.NewMessage(chatID, card)
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Add to cart", "cart:"+item.ID),
			tgbotapi.NewInlineKeyboardButtonData("Details", "view:"+item.ID),
		),
	)

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send item card",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("item_id", item.ID))
	}
}

// AddToCart fulfils the session's cart side-effect request. The real cart
// lives outside the bot, so this just records the request.
func (b *Bot) AddToCart(item models.CatalogItem) {
	b.logger.Info("Cart add requested",
		zap.String("item_id", item.ID),
		zap.String("item_name", item.Name))
}

// OpenProduct fulfils the detail-view navigation request. There is no page
// to navigate to from a chat, so the request is only recorded.
func (b *Bot) OpenProduct(item models.CatalogItem) {
	b.logger.Info("Detail view requested",
		zap.String("item_id", item.ID),
		zap.String("item_name", item.Name))
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.logger.Error("Failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func suggestionKeyboard(suggestions []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(suggestions))
	for _, s := range suggestions {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(s)))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// escapeMarkdown escapes special characters for MarkdownV2.
func escapeMarkdown(text string) string {
	specialChars := []string{"_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}
