package session

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/shopbot/internal/catalog"
	"github.com/xaenox/shopbot/internal/classifier"
	"github.com/xaenox/shopbot/internal/composer"
	"github.com/xaenox/shopbot/internal/models"
	"github.com/xaenox/shopbot/internal/rules"
	"github.com/xaenox/shopbot/internal/search"
	"github.com/xaenox/shopbot/internal/slots"
	"github.com/xaenox/shopbot/internal/storage"
)

// HistoryKey is the storage key holding the serialized message history.
const HistoryKey = "shopbot:chat_history"

const welcomeText = "Hi! I'm your shopping assistant. Ask me for products by category, " +
	"budget, brand or features - try \"wireless headphones under 10k\"."

const (
	defaultHistoryLimit = 100
	defaultMinDelay     = 600 * time.Millisecond
	defaultMaxDelay     = 1500 * time.Millisecond
)

// Sink receives the side-effect requests the host must fulfil.
type Sink interface {
	AddToCart(item models.CatalogItem)
	OpenProduct(item models.CatalogItem)
}

// Scheduler defers a function call. The default implementation uses
// time.AfterFunc; tests substitute a synchronous one.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Options tune a session. Zero values fall back to production defaults.
type Options struct {
	HistoryLimit int
	MinDelay     time.Duration
	MaxDelay     time.Duration
	Scheduler    Scheduler
	Rand         *rand.Rand
	// OnMessage is invoked (outside the session lock) for every bot message
	// appended asynchronously, so a push-style host can render it.
	OnMessage func(models.Message)
}

// Session owns one conversation: ordered history, open/minimize/unread
// bookkeeping, the simulated thinking delay and persistence. All methods are
// safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	history   []models.Message
	open      bool
	minimized bool
	unread    int
	composing int

	classifier classifier.Classifier
	provider   catalog.Provider
	composer   *composer.Composer
	store      storage.Store
	sink       Sink
	logger     *zap.Logger

	sched        Scheduler
	rng          *rand.Rand
	historyLimit int
	minDelay     time.Duration
	maxDelay     time.Duration
	onMessage    func(models.Message)
}

func New(clf classifier.Classifier, provider catalog.Provider, store storage.Store, sink Sink, logger *zap.Logger, opts Options) *Session {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.MinDelay <= 0 {
		opts.MinDelay = defaultMinDelay
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = defaultMaxDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timerScheduler{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		classifier:   clf,
		provider:     provider,
		composer:     composer.New(opts.Rand),
		store:        store,
		sink:         sink,
		logger:       logger,
		sched:        opts.Scheduler,
		rng:          opts.Rand,
		historyLimit: opts.HistoryLimit,
		minDelay:     opts.MinDelay,
		maxDelay:     opts.MaxDelay,
		onMessage:    opts.OnMessage,
	}
	s.history = s.loadHistory()
	return s
}

// loadHistory restores the persisted transcript; absence or corruption
// falls back to a single welcome message, never an error.
func (s *Session) loadHistory() []models.Message {
	raw, err := s.store.Get(HistoryKey)
	if err != nil {
		s.logger.Warn("Failed to load chat history", zap.Error(err))
		return []models.Message{s.welcomeMessage()}
	}
	if raw == "" {
		return []models.Message{s.welcomeMessage()}
	}
	var history []models.Message
	if err := json.Unmarshal([]byte(raw), &history); err != nil || len(history) == 0 {
		s.logger.Warn("Discarding corrupt chat history", zap.Error(err))
		return []models.Message{s.welcomeMessage()}
	}
	return history
}

func (s *Session) welcomeMessage() models.Message {
	return models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleBot,
		Text:      welcomeText,
		CreatedAt: time.Now(),
	}
}

// Send records the utterance as a user message and schedules its reply
// after a randomized thinking delay. Overlapping sends each schedule
// independently; their replies land in completion order.
func (s *Session) Send(utterance string) {
	s.mu.Lock()
	s.history = append(s.history, models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleUser,
		Text:      utterance,
		CreatedAt: time.Now(),
	})
	s.persistLocked()
	s.composing++
	delay := s.thinkingDelayLocked()
	s.mu.Unlock()

	// Once scheduled the reply always completes and appends, even if the
	// session is closed or cleared in the interim.
	s.sched.AfterFunc(delay, func() {
		s.finishSend(utterance)
	})
}

func (s *Session) finishSend(utterance string) {
	intent := s.classifier.Classify(utterance)
	extracted := slots.Extract(utterance)

	items, err := s.provider.Products(context.Background())
	if err != nil {
		s.logger.Warn("Catalog fetch failed, replying with no results", zap.Error(err))
		items = nil
	}

	var ranked, loose []models.CatalogItem
	if extracted.Empty() {
		loose = search.LooseSearch(items, utterance)
	} else {
		ranked = search.FilterRank(items, extracted, intent)
	}

	s.mu.Lock()
	reply := s.composer.Compose(intent, extracted, ranked, loose)
	msg := models.Message{
		ID:           uuid.New().String(),
		Role:         models.RoleBot,
		Text:         reply.Text,
		Items:        reply.Items,
		TotalMatched: reply.TotalMatched,
		CreatedAt:    time.Now(),
	}
	s.appendBotLocked(msg)
	s.composing--
	s.mu.Unlock()

	s.notify(msg)
}

// AddToCart forwards the request to the host sink and appends a
// confirmation message to the transcript.
func (s *Session) AddToCart(item models.CatalogItem) {
	if s.sink != nil {
		s.sink.AddToCart(item)
	}

	s.mu.Lock()
	msg := models.Message{
		ID:           uuid.New().String(),
		Role:         models.RoleBot,
		Text:         item.Name + " has been added to your cart!",
		Items:        []models.CatalogItem{item},
		TotalMatched: 1,
		CreatedAt:    time.Now(),
	}
	s.appendBotLocked(msg)
	s.mu.Unlock()

	s.notify(msg)
}

// OpenProduct forwards a detail-view navigation request to the host sink.
func (s *Session) OpenProduct(item models.CatalogItem) {
	if s.sink != nil {
		s.sink.OpenProduct(item)
	}
}

// Toggle flips between closed and open-expanded. Opening always
// un-minimizes and clears the unread counter.
func (s *Session) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		s.open = false
		return
	}
	s.open = true
	s.minimized = false
	s.unread = 0
}

func (s *Session) Minimize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		s.minimized = true
	}
}

func (s *Session) Maximize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		s.minimized = false
		s.unread = 0
	}
}

// Clear resets the transcript to a single welcome message and deletes the
// persisted copy. Open/minimized state is untouched; in-flight replies are
// not cancelled.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = []models.Message{s.welcomeMessage()}
	if err := s.store.Delete(HistoryKey); err != nil {
		s.logger.Warn("Failed to clear persisted history", zap.Error(err))
	}
}

func (s *Session) History() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Session) IsMinimized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minimized
}

// IsComposing reports whether at least one reply is still pending.
func (s *Session) IsComposing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composing > 0
}

// Suggestions returns the fixed quick-suggestion utterances for host UIs.
func (s *Session) Suggestions() []string {
	return rules.QuickSuggestions
}

func (s *Session) appendBotLocked(msg models.Message) {
	s.history = append(s.history, msg)
	if !s.open || s.minimized {
		s.unread++
	}
	s.persistLocked()
}

// persistLocked saves the trimmed history best-effort; durability failures
// never interrupt the conversation.
func (s *Session) persistLocked() {
	trimmed := s.history
	if len(trimmed) > s.historyLimit {
		trimmed = trimmed[len(trimmed)-s.historyLimit:]
	}
	raw, err := json.Marshal(trimmed)
	if err != nil {
		s.logger.Warn("Failed to encode chat history", zap.Error(err))
		return
	}
	if err := s.store.Set(HistoryKey, string(raw)); err != nil {
		s.logger.Warn("Failed to persist chat history", zap.Error(err))
	}
}

func (s *Session) thinkingDelayLocked() time.Duration {
	if s.maxDelay <= s.minDelay {
		return s.minDelay
	}
	return s.minDelay + time.Duration(s.rng.Int63n(int64(s.maxDelay-s.minDelay)+1))
}

func (s *Session) notify(msg models.Message) {
	if s.onMessage != nil {
		s.onMessage(msg)
	}
}
