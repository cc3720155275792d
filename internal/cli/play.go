package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/stanza/internal/logging"
	"github.com/aretw0/stanza/internal/presentation/tui"
	"github.com/aretw0/stanza/internal/sanitize"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/aretw0/stanza/pkg/ports"
	"github.com/aretw0/stanza/pkg/session"
	json "github.com/goccy/go-json"
)

// DefaultSessionID is used by the terminal player when none is given.
const DefaultSessionID = "local"

// Player runs interactive traversals over a line-based reader and writer.
type Player struct {
	Engine   ports.Engine
	Sessions *session.Manager
	In       io.Reader
	Out      io.Writer

	// Render turns markdown into terminal output. Nil prints it raw.
	Render func(string) (string, error)
	// JSON switches to one JSON turn per line, for scripts.
	JSON   bool
	Logger *slog.Logger
}

// PlayOptions selects what Play starts with.
type PlayOptions struct {
	SessionID string
	ChainID   string
	// Fresh discards a stored traversal instead of resuming it.
	Fresh bool
	// Once stops after the first poem.
	Once bool
}

// Play runs traversals until the input ends or the visitor quits.
// Words are read one per line; a number picks the option at that position.
func (p *Player) Play(ctx context.Context, opts PlayOptions) error {
	if opts.SessionID == "" {
		opts.SessionID = DefaultSessionID
	}
	logger := p.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	start := func(ctx context.Context) (*domain.State, error) {
		return p.Engine.Start(ctx, opts.SessionID, opts.ChainID)
	}
	var (
		state *domain.State
		err   error
	)
	if opts.Fresh {
		state, err = p.Sessions.Replace(ctx, opts.SessionID, start)
	} else {
		state, err = p.Sessions.LoadOrStart(ctx, opts.SessionID, start)
	}
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}
	logger.Info("Session active", "session_id", opts.SessionID, "chain", state.ChainID)

	scanner := bufio.NewScanner(p.In)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		turn := domain.TurnFor(state)
		if err := p.show(turn); err != nil {
			return err
		}

		if !scanner.Scan() {
			return scanner.Err()
		}
		raw := strings.TrimSuffix(scanner.Text(), "\r")
		line := strings.TrimSpace(raw)

		if turn.Terminal {
			if opts.Once || !again(line) {
				return nil
			}
			state, err = p.Sessions.Update(ctx, opts.SessionID, func(ctx context.Context, s *domain.State) (*domain.State, error) {
				return p.Engine.Restart(ctx, s, "")
			})
			if err != nil {
				return err
			}
			continue
		}

		if line == "q" || line == ":q" {
			return nil
		}
		word, err := p.parse(raw, turn.Options)
		if err != nil {
			p.notice("rejected: %v", err)
			continue
		}

		next, err := p.Sessions.Update(ctx, opts.SessionID, func(ctx context.Context, s *domain.State) (*domain.State, error) {
			return p.Engine.Choose(ctx, s, word)
		})
		if errors.Is(err, domain.ErrNotOffered) {
			p.notice("%q is not on offer", word)
			continue
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		state = next
	}
}

// parse reads a word, a 1-based option number, or a JSON {"word": ...} object.
// Typed words are trimmed unless the untrimmed line is itself on offer.
func (p *Player) parse(raw string, options []string) (string, error) {
	line := strings.TrimSpace(raw)
	if strings.HasPrefix(line, "{") {
		var req struct {
			Word string `json:"word"`
		}
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			return "", err
		}
		raw, line = req.Word, req.Word
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], nil
	}
	for _, o := range options {
		if o == raw {
			return sanitize.Word(raw)
		}
	}
	return sanitize.Word(line)
}

func (p *Player) show(turn *domain.Turn) error {
	if p.JSON {
		return json.NewEncoder(p.Out).Encode(turn)
	}
	if turn.Terminal {
		if err := p.print(tui.PoemMarkdown(turn.Poem)); err != nil {
			return err
		}
		_, err := fmt.Fprint(p.Out, "Another poem? [Y/n] ")
		return err
	}
	if err := p.print(tui.OptionsMarkdown(turn.Sentence, turn.Options)); err != nil {
		return err
	}
	_, err := fmt.Fprint(p.Out, "> ")
	return err
}

func (p *Player) print(markdown string) error {
	out := markdown
	if p.Render != nil {
		rendered, err := p.Render(markdown)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		out = rendered
	}
	_, err := fmt.Fprintln(p.Out, out)
	return err
}

// notice prints a system message; JSON mode keeps stdout machine readable.
func (p *Player) notice(format string, args ...any) {
	if p.JSON {
		_ = json.NewEncoder(p.Out).Encode(map[string]string{"error": fmt.Sprintf(format, args...)})
		return
	}
	fmt.Fprintf(p.Out, ">>> %s\n", fmt.Sprintf(format, args...))
}

func again(answer string) bool {
	switch strings.ToLower(answer) {
	case "", "y", "yes":
		return true
	}
	return false
}
