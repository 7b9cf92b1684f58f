package deck

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed decks/*.json
var embedded embed.FS

// Library is the set of named prompt decks available to every room. It is
// loaded once at startup and read-only afterwards, so rooms never touch disk.
type Library struct {
	names []string
	decks map[string][]string
}

func NewLibrary(decks map[string][]string) (*Library, error) {
	lib := &Library{decks: make(map[string][]string, len(decks))}
	for name, cards := range decks {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New("deck name is required")
		}
		if len(cards) == 0 {
			return nil, fmt.Errorf("deck %q has no prompts", name)
		}
		pile := make([]string, len(cards))
		copy(pile, cards)
		lib.decks[name] = pile
		lib.names = append(lib.names, name)
	}
	if len(lib.names) == 0 {
		return nil, errors.New("no decks available")
	}
	sort.Strings(lib.names)
	return lib, nil
}

// Names lists the deck names in alphabetical order.
func (l *Library) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

func (l *Library) Has(name string) bool {
	_, ok := l.decks[name]
	return ok
}

// Deck returns a fresh copy of the named deck.
func (l *Library) Deck(name string) (*Deck[string], bool) {
	cards, ok := l.decks[name]
	if !ok {
		return nil, false
	}
	return New(cards...), true
}

// Size reports how many prompts a deck holds, or 0 for unknown decks.
func (l *Library) Size(name string) int {
	return len(l.decks[name])
}

// LoadDefault reads the decks bundled with the binary.
func LoadDefault() (*Library, error) {
	sub, err := fs.Sub(embedded, "decks")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadDir reads every <name>.json file in dir. Each file holds a JSON array of
// prompt strings.
func LoadDir(dir string) (*Library, error) {
	return LoadFS(os.DirFS(dir))
}

func LoadFS(fsys fs.FS) (*Library, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	decks := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read deck %s: %w", entry.Name(), err)
		}
		cards, err := ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse deck %s: %w", entry.Name(), err)
		}
		decks[strings.TrimSuffix(entry.Name(), ".json")] = cards
	}
	return NewLibrary(decks)
}

// ParseJSON decodes a deck file, dropping blank prompts.
func ParseJSON(data []byte) ([]string, error) {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	cards := make([]string, 0, len(raw))
	for _, card := range raw {
		if trimmed := strings.TrimSpace(card); trimmed != "" {
			cards = append(cards, trimmed)
		}
	}
	return cards, nil
}
