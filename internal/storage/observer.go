// ABOUTME: Observer registration for mood store list replacements.
// ABOUTME: Provides function and channel adapters for subscribers.
package storage

import (
	"sync"

	"github.com/2389-research/mood/internal/models"
)

// Observer is notified every time the store replaces its entry list.
type Observer interface {
	EntriesReplaced(entries []models.MoodEntry)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(entries []models.MoodEntry)

// EntriesReplaced calls f(entries).
func (f ObserverFunc) EntriesReplaced(entries []models.MoodEntry) {
	f(entries)
}

// observerSet is a registry of observers keyed by subscription id.
type observerSet struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]Observer
}

func (o *observerSet) add(obs Observer) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.subs == nil {
		o.subs = make(map[int]Observer)
	}
	id := o.nextID
	o.nextID++
	o.subs[id] = obs

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}

func (o *observerSet) snapshot() []Observer {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Observer, 0, len(o.subs))
	for _, obs := range o.subs {
		out = append(out, obs)
	}
	return out
}

// ChannelObserver delivers list replacements on a buffered channel.
// When the consumer falls behind, the oldest pending list is dropped so the
// channel always ends with the most recent state.
type ChannelObserver struct {
	ch chan []models.MoodEntry
}

// NewChannelObserver creates a channel observer with the given buffer size (minimum 1).
func NewChannelObserver(buffer int) *ChannelObserver {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelObserver{ch: make(chan []models.MoodEntry, buffer)}
}

// C returns the receive side of the channel.
func (c *ChannelObserver) C() <-chan []models.MoodEntry {
	return c.ch
}

// EntriesReplaced implements Observer without blocking the store.
func (c *ChannelObserver) EntriesReplaced(entries []models.MoodEntry) {
	for {
		select {
		case c.ch <- entries:
			return
		default:
		}
		select {
		case <-c.ch:
		default:
		}
	}
}
