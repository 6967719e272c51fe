package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/shopbot/internal/catalog"
	"github.com/xaenox/shopbot/internal/classifier"
	"github.com/xaenox/shopbot/internal/models"
	"github.com/xaenox/shopbot/internal/storage"
)

// immediateScheduler completes every reply synchronously.
type immediateScheduler struct{}

func (immediateScheduler) AfterFunc(_ time.Duration, f func()) { f() }

// manualScheduler holds scheduled replies until Fire is called.
type manualScheduler struct {
	mu  sync.Mutex
	fns []func()
}

func (m *manualScheduler) AfterFunc(_ time.Duration, f func()) {
	m.mu.Lock()
	m.fns = append(m.fns, f)
	m.mu.Unlock()
}

func (m *manualScheduler) Fire() {
	m.mu.Lock()
	fns := m.fns
	m.fns = nil
	m.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

type recordingSink struct {
	added  []models.CatalogItem
	opened []models.CatalogItem
}

func (s *recordingSink) AddToCart(item models.CatalogItem) {
	s.added = append(s.added, item)
}

func (s *recordingSink) OpenProduct(item models.CatalogItem) {
	s.opened = append(s.opened, item)
}

type failingProvider struct{}

func (failingProvider) Products(context.Context) ([]models.CatalogItem, error) {
	return nil, errors.New("catalog unavailable")
}
func (failingProvider) Close() error { return nil }

func scenarioCatalog() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: "k1", Name: "Corsair K100", Category: "Keyboard", Price: 24999, Rating: 4.8, Brand: "corsair",
			Features: []string{"RGB", "mechanical"}},
		{ID: "m1", Name: "Logitech G Pro X", Category: "Mouse", Price: 8999, Rating: 4.6, Brand: "logitech",
			Features: []string{"wireless"}},
	}
}

func newTestSession(t *testing.T, store storage.Store, sched Scheduler, opts Options) *Session {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	opts.Scheduler = sched
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	provider := catalog.NewStaticProvider(scenarioCatalog())
	return New(classifier.NewRuleClassifier(), provider, store, nil, zap.NewNop(), opts)
}

func TestFreshSessionSeedsWelcome(t *testing.T) {
	s := newTestSession(t, nil, immediateScheduler{}, Options{})
	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, models.RoleBot, history[0].Role)
	assert.NotEmpty(t, history[0].Text)
}

func TestCorruptHistoryFallsBackToWelcome(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(HistoryKey, "{definitely not json"))

	s := newTestSession(t, store, immediateScheduler{}, Options{})
	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, models.RoleBot, history[0].Role)
}

func TestHistorySurvivesRestart(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestSession(t, store, immediateScheduler{}, Options{})
	s.Send("hello")
	require.Len(t, s.History(), 3) // welcome, user, reply

	restored := newTestSession(t, store, immediateScheduler{}, Options{})
	assert.Len(t, restored.History(), 3)
	assert.Equal(t, s.History()[2].Text, restored.History()[2].Text)
}

func TestSendAppendsUserThenBot(t *testing.T) {
	s := newTestSession(t, nil, immediateScheduler{}, Options{})
	s.Send("hello")

	history := s.History()
	require.Len(t, history, 3)
	assert.Equal(t, models.RoleUser, history[1].Role)
	assert.Equal(t, "hello", history[1].Text)
	assert.Equal(t, models.RoleBot, history[2].Role)
	assert.Empty(t, history[2].Items)
}

func TestEndToEndQuery(t *testing.T) {
	s := newTestSession(t, nil, immediateScheduler{}, Options{})
	s.Send("best rgb keyboard under 30000")

	history := s.History()
	reply := history[len(history)-1]
	require.Equal(t, models.RoleBot, reply.Role)
	require.Len(t, reply.Items, 1)
	assert.Equal(t, "Corsair K100", reply.Items[0].Name)
	assert.Equal(t, 1, reply.TotalMatched)
	assert.Contains(t, reply.Text, "Keyboard")
}

func TestUnreadAccountingWhileClosed(t *testing.T) {
	s := newTestSession(t, nil, immediateScheduler{}, Options{})

	s.Send("hello")
	s.Send("thanks")
	s.Send("cheapest mouse")
	assert.Equal(t, 3, s.UnreadCount())

	s.Toggle() // open-expanded
	assert.Equal(t, 0, s.UnreadCount())
}

func TestUnreadAccountingWhileMinimized(t *testing.T) {
	s := newTestSession(t, nil, immediateScheduler{}, Options{})
	s.Toggle()
	s.Minimize()

	s.Send("hello")
	s.Send("hello")
	s.Send("hello")
	assert.Equal(t, 3, s.UnreadCount())

	s.Maximize()
	assert.Equal(t, 0, s.UnreadCount())
}

func TestNoUnreadWhileOpenExpanded(t *testing.T) {
	s := newTestSession(t, nil, immediateScheduler{}, Options{})
	s.Toggle()

	s.Send("hello")
	assert.Equal(t, 0, s.UnreadCount())
}

func TestComposingFlag(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, nil, sched, Options{})

	s.Send("hello")
	assert.True(t, s.IsComposing())

	sched.Fire()
	assert.False(t, s.IsComposing())
}

func TestClearDoesNotCancelPendingReply(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, nil, sched, Options{})

	s.Send("cheapest mouse")
	s.Clear()
	require.Len(t, s.History(), 1)

	// The scheduled reply still lands after the clear.
	sched.Fire()
	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleBot, history[1].Role)
}

func TestClearDeletesPersistedHistory(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestSession(t, store, immediateScheduler{}, Options{})
	s.Send("hello")

	raw, err := store.Get(HistoryKey)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	s.Clear()
	raw, err = store.Get(HistoryKey)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestPersistedHistoryCappedAt100(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestSession(t, store, immediateScheduler{}, Options{HistoryLimit: 100})

	for i := 0; i < 75; i++ {
		s.Send(fmt.Sprintf("hello %d", i))
	}
	live := s.History()
	require.Len(t, live, 151) // welcome + 75 pairs

	raw, err := store.Get(HistoryKey)
	require.NoError(t, err)
	var persisted []models.Message
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Len(t, persisted, 100)
	// most recent messages are the ones retained
	assert.Equal(t, live[len(live)-1].ID, persisted[len(persisted)-1].ID)
	assert.Equal(t, live[len(live)-100].ID, persisted[0].ID)
}

func TestAddToCartAppendsConfirmation(t *testing.T) {
	sink := &recordingSink{}
	store := storage.NewMemoryStore()
	provider := catalog.NewStaticProvider(scenarioCatalog())
	s := New(classifier.NewRuleClassifier(), provider, store, sink, zap.NewNop(), Options{
		Scheduler: immediateScheduler{},
		Rand:      rand.New(rand.NewSource(1)),
	})

	item := scenarioCatalog()[0]
	s.AddToCart(item)

	require.Len(t, sink.added, 1)
	assert.Equal(t, item.ID, sink.added[0].ID)

	history := s.History()
	last := history[len(history)-1]
	assert.Equal(t, models.RoleBot, last.Role)
	assert.Contains(t, last.Text, item.Name)
	require.Len(t, last.Items, 1)
	assert.GreaterOrEqual(t, last.TotalMatched, len(last.Items))
	assert.Equal(t, 1, s.UnreadCount()) // session still closed
}

func TestOpenProductForwardsToSink(t *testing.T) {
	sink := &recordingSink{}
	provider := catalog.NewStaticProvider(scenarioCatalog())
	s := New(classifier.NewRuleClassifier(), provider, storage.NewMemoryStore(), sink, zap.NewNop(), Options{
		Scheduler: immediateScheduler{},
	})

	before := len(s.History())
	s.OpenProduct(scenarioCatalog()[1])
	require.Len(t, sink.opened, 1)
	assert.Len(t, s.History(), before) // navigation appends nothing
}

func TestStateMachineTransitions(t *testing.T) {
	s := newTestSession(t, nil, immediateScheduler{}, Options{})

	assert.False(t, s.IsOpen())

	s.Minimize() // no-op while closed
	assert.False(t, s.IsMinimized())

	s.Toggle()
	assert.True(t, s.IsOpen())
	assert.False(t, s.IsMinimized())

	s.Minimize()
	assert.True(t, s.IsMinimized())

	// re-opening from closed always un-minimizes
	s.Toggle()
	assert.False(t, s.IsOpen())
	s.Toggle()
	assert.True(t, s.IsOpen())
	assert.False(t, s.IsMinimized())
}

func TestOnMessageCallback(t *testing.T) {
	var mu sync.Mutex
	var delivered []models.Message
	s := newTestSession(t, nil, immediateScheduler{}, Options{
		OnMessage: func(msg models.Message) {
			mu.Lock()
			delivered = append(delivered, msg)
			mu.Unlock()
		},
	})

	s.Send("hello")
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 1)
	assert.Equal(t, models.RoleBot, delivered[0].Role)
}

func TestCatalogFailureDegradesToReply(t *testing.T) {
	s := New(classifier.NewRuleClassifier(), failingProvider{}, storage.NewMemoryStore(), nil, zap.NewNop(), Options{
		Scheduler: immediateScheduler{},
		Rand:      rand.New(rand.NewSource(1)),
	})

	s.Send("cheapest keyboard")
	history := s.History()
	reply := history[len(history)-1]
	assert.Equal(t, models.RoleBot, reply.Role)
	assert.Empty(t, reply.Items)
	assert.NotEmpty(t, reply.Text)
}

func TestSuggestionsFixedList(t *testing.T) {
	s := newTestSession(t, nil, immediateScheduler{}, Options{})
	assert.NotEmpty(t, s.Suggestions())
}
