package moderation

import (
	"bufio"
	"consultoria-tcp/errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Filter is the moderator currently in use. The word list can be swapped at
// runtime while messages are being censored.
type Filter struct {
	current atomic.Pointer[Moderator]
}

func NewFilter(moderator *Moderator) *Filter {
	f := &Filter{}
	if moderator != nil {
		f.current.Store(moderator)
	}
	return f
}

// Censor is a no-op until a moderator has been installed.
func (f *Filter) Censor(content string) (string, []string) {
	m := f.current.Load()
	if m == nil {
		return content, nil
	}
	return m.Censor(content)
}

func (f *Filter) Swap(moderator *Moderator) {
	f.current.Store(moderator)
}

// LoadWords reads one censored word per line. Blank lines and lines starting
// with '#' are skipped.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w in %s", errors.ErrEmptyWords, path)
	}
	return words, nil
}

// LoadModerator builds a moderator from the word file at path.
func LoadModerator(path string, censoredChar rune, log *slog.Logger) (*Moderator, error) {
	words, err := LoadWords(path)
	if err != nil {
		return nil, err
	}
	return NewModerator(words, censoredChar, log)
}
