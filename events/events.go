package events

import (
	"sync"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
	"github.com/kc2g-flex-tools/audioswitch/device"
)

// Event is a marker interface for all switcher events
type Event interface {
	isEvent()
}

// Base implementation for all events
type baseEvent struct{}

func (baseEvent) isEvent() {}

// DevicesChanged is fired with a fresh device list whenever the menu should be rebuilt
type DevicesChanged struct {
	baseEvent
	Snapshot device.Snapshot
}

// DeviceSwitched is fired after Endpoint became the default for every role
type DeviceSwitched struct {
	baseEvent
	Endpoint audioshim.Endpoint
}

// SwitchFailed is fired when a switch to Endpoint didn't complete
type SwitchFailed struct {
	baseEvent
	Endpoint audioshim.Endpoint
	Err      error
}

// Bus provides simple event publish/subscribe
type Bus struct {
	mu          sync.Mutex
	subscribers []chan Event
	closed      bool
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe creates a new event channel for receiving events
func (b *Bus) Subscribe(bufferSize int) chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Publish sends an event to all subscribers (non-blocking)
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// Skip slow subscribers - a switch never waits on the UI
		}
	}
}

// Close closes every subscriber channel. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
