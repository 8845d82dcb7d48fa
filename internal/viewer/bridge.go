package viewer

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

// Command kinds sent to the page.
const (
	CommandInitialize = "initialize"
	CommandUpdate     = "update"
)

// Command tells the page how to drive Swagger UI: create the bundle on
// "initialize", call specActions on "update".
type Command struct {
	Kind     string          `json:"kind"`
	URL      string          `json:"url,omitempty"`
	Spec     json.RawMessage `json:"spec,omitempty"`
	Revision uint64          `json:"revision"`
}

// Options are the Swagger UI bundle options the page starts from.
type Options struct {
	DomID        string `json:"dom_id"`
	DocExpansion string `json:"docExpansion"`
	DeepLinking  bool   `json:"deepLinking"`
}

// DefaultOptions mirrors the portal's Swagger UI setup.
func DefaultOptions() Options {
	return Options{DomID: "#swagger", DocExpansion: "list", DeepLinking: true}
}

// Bridge is an Adapter that records the latest command for the page and
// notifies listeners. It does not render anything itself.
type Bridge struct {
	mu        sync.Mutex
	current   *Command
	revision  uint64
	listeners []func(Command)
}

// NewBridge creates an idle Bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// OnCommand registers a listener called after every command.
func (b *Bridge) OnCommand(fn func(Command)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Current returns the latest command, if any.
func (b *Bridge) Current() (Command, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Command{}, false
	}
	return *b.current, true
}

// Reset forgets the current command. Revisions keep increasing.
func (b *Bridge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
}

// Initialize implements Adapter.
func (b *Bridge) Initialize(src Source) error {
	if src.Inline() {
		return b.emit(CommandInitialize, "", src.Spec)
	}
	return b.emit(CommandInitialize, src.URL, nil)
}

// UpdateByURL implements Adapter.
func (b *Bridge) UpdateByURL(url string) error {
	return b.emit(CommandUpdate, url, nil)
}

// UpdateBySpec implements Adapter.
func (b *Bridge) UpdateBySpec(spec any) error {
	return b.emit(CommandUpdate, "", spec)
}

func (b *Bridge) emit(kind, url string, spec any) error {
	cmd := Command{Kind: kind, URL: url}
	if spec != nil {
		raw, err := json.Marshal(spec)
		if err != nil {
			return fmt.Errorf("encoding spec: %w", err)
		}
		cmd.Spec = raw
	}

	b.mu.Lock()
	b.revision++
	cmd.Revision = b.revision
	b.current = &cmd
	listeners := slices.Clone(b.listeners)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(cmd)
	}
	return nil
}
