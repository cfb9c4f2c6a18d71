// Package commands provides the user-facing command registry.
// Commands are localized words ("查看表情包"), accepted with or without a
// leading slash.
package commands

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Provider gives command handlers access to gateway functionality.
type Provider interface {
	// CategoryNames lists all known emotion display names, in table order.
	CategoryNames() []string

	// ResolveCategory maps a display name to its storage slug.
	ResolveCategory(name string) (string, bool)

	// OpenUploadSession opens a timed upload session for the given key.
	OpenUploadSession(key, category string)

	// UploadWindowSeconds is the upload session lifetime, for user messages.
	UploadWindowSeconds() int
}

// Command represents one user command.
type Command struct {
	Name        string // e.g., "查看表情包"
	Description string
	Usage       string // argument hint for error messages (optional)
	Handler     Handler
}

// Handler is the function signature for command handlers
type Handler func(ctx context.Context, args *Args) *Result

// Args contains the arguments passed to a command handler
type Args struct {
	SessionKey string // upload-session key for the caller
	Provider   Provider
	Manager    *Manager
	RawArgs    string // everything after the command name
	Usage      string // copy of Command.Usage for error messages
}

// Result contains the result of a command execution
type Result struct {
	Text  string
	Error error
}

// Manager is the command registry.
type Manager struct {
	mu       sync.RWMutex
	commands map[string]*Command // keyed by name, slash variants included
	provider Provider
}

// NewManager creates a manager with the built-in commands registered.
func NewManager(provider Provider) *Manager {
	m := &Manager{
		commands: make(map[string]*Command),
		provider: provider,
	}
	registerBuiltins(m)
	return m
}

// Register adds a command. Both "name" and "/name" forms are accepted.
func (m *Manager) Register(cmd *Command) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commands[cmd.Name] = cmd
	m.commands["/"+cmd.Name] = cmd
}

// Get returns a command by name, or nil.
func (m *Manager) Get(name string) *Command {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.commands[name]
}

// List returns all unique commands sorted by name.
func (m *Manager) List() []*Command {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[*Command]bool)
	var list []*Command
	for _, cmd := range m.commands {
		if !seen[cmd] {
			seen[cmd] = true
			list = append(list, cmd)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Matches reports whether text starts with a registered command.
func (m *Manager) Matches(text string) bool {
	name, _ := split(text)
	return m.Get(name) != nil
}

// Execute runs the command in text. sessionKey identifies the caller for
// upload-session purposes.
func (m *Manager) Execute(ctx context.Context, text, sessionKey string) *Result {
	name, rawArgs := split(text)

	cmd := m.Get(name)
	if cmd == nil {
		return &Result{Text: "未知指令：" + name + "\n发送 /help 查看可用指令。"}
	}

	return cmd.Handler(ctx, &Args{
		SessionKey: sessionKey,
		Provider:   m.provider,
		Manager:    m,
		RawArgs:    rawArgs,
		Usage:      cmd.Usage,
	})
}

// split separates the command name from its arguments.
func split(text string) (name, rawArgs string) {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	name = parts[0]
	if len(parts) > 1 {
		rawArgs = strings.TrimSpace(parts[1])
	}
	return name, rawArgs
}
