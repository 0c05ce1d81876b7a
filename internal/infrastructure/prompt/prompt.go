package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"fxrates-exporter/internal/application"
	"fxrates-exporter/internal/domain"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	_ application.Decider = (*Terminal)(nil)
	_ application.Decider = Static{}
)

// ParseDecision maps a policy name to a decision.
func ParseDecision(s string) (domain.Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite", "yes", "y":
		return domain.DecisionOverwrite, nil
	case "rename", "no", "n":
		return domain.DecisionRename, nil
	case "cancel", "skip", "c":
		return domain.DecisionCancel, nil
	default:
		return domain.DecisionCancel, fmt.Errorf("prompt: unknown decision %q", s)
	}
}

// Static answers every conflict the same way.
type Static struct {
	Decision domain.Decision
}

func (s Static) Decide(context.Context, string) (domain.Decision, error) { return s.Decision, nil }

// Terminal asks yes / no / cancel on a line-oriented stream. "No" keeps the
// existing file and saves next to it. End of input cancels.
type Terminal struct {
	in    io.Reader
	out   io.Writer
	lines chan string
	once  sync.Once
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, lines: make(chan string)}
}

func (t *Terminal) start() {
	go func() {
		sc := bufio.NewScanner(t.in)
		for sc.Scan() {
			t.lines <- sc.Text()
		}
		close(t.lines)
	}()
}

func (t *Terminal) Decide(ctx context.Context, path string) (domain.Decision, error) {
	t.once.Do(t.start)
	fmt.Fprintf(t.out, "%s already exists.\n", color.YellowString(path))
	for {
		fmt.Fprint(t.out, "Overwrite it? [y]es / [n]o, save as *_new / [c]ancel: ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(t.out)
			return domain.DecisionCancel, ctx.Err()
		case line, ok := <-t.lines:
			if !ok {
				fmt.Fprintln(t.out)
				return domain.DecisionCancel, nil
			}
			if d, err := ParseDecision(line); err == nil {
				return d, nil
			}
			fmt.Fprintln(t.out, color.RedString("please answer y, n or c"))
		}
	}
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type timeoutDecider struct {
	next    application.Decider
	timeout time.Duration
	log     *zap.Logger
}

// WithTimeout cancels a conflict nobody answered within d. A non-positive d
// returns next unchanged.
func WithTimeout(next application.Decider, d time.Duration, log *zap.Logger) application.Decider {
	if d <= 0 {
		return next
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &timeoutDecider{next: next, timeout: d, log: log}
}

func (t *timeoutDecider) Decide(ctx context.Context, path string) (domain.Decision, error) {
	dctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	d, err := t.next.Decide(dctx, path)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		t.log.Warn("confirm_timeout", zap.String("path", path), zap.Duration("timeout", t.timeout))
		return domain.DecisionCancel, nil
	}
	return d, err
}
