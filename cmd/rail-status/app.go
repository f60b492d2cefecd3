package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/BearBump/RailStatus/internal/models"
	"github.com/BearBump/RailStatus/internal/services/lookups"
)

const helpText = "commands: pnr <number> | train <number> | views | quit"

type viewCounter interface {
	RecordPageView(ctx context.Context) (int64, error)
	PageViews(ctx context.Context) (int64, error)
}

type terminal struct {
	mu  sync.Mutex
	out io.Writer

	views viewCounter

	pnr   *lookups.Session
	train *lookups.Session

	// last announced sequence and rendered resolution count per form
	issued   map[models.LookupKind]uint64
	rendered map[models.LookupKind]uint64
}

func newTerminal(out io.Writer, looker lookups.Looker, views viewCounter, policy lookups.Policy) *terminal {
	t := &terminal{
		out:      out,
		views:    views,
		issued:   map[models.LookupKind]uint64{},
		rendered: map[models.LookupKind]uint64{},
	}
	t.pnr = lookups.NewSession(looker, models.LookupKindPNR, policy, t.onChange)
	t.train = lookups.NewSession(looker, models.LookupKindRunningStatus, policy, t.onChange)
	return t
}

// onChange announces new submissions and renders applied results and
// rejected submissions.
func (t *terminal) onChange(st lookups.FormState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if st.Issued > t.issued[st.Kind] {
		t.issued[st.Kind] = st.Issued
		fmt.Fprintf(t.out, "looking up %s (#%d)...\n", st.Input, st.Issued)
		return
	}
	if st.Resolutions > t.rendered[st.Kind] {
		t.rendered[st.Kind] = st.Resolutions
		t.render(st)
		return
	}
	if st.Err != nil && st.Err.Kind == models.ErrKindEmptyQuery {
		renderError(t.out, st.Kind, st.Err)
	}
}

func (t *terminal) render(st lookups.FormState) {
	if st.Err != nil {
		renderError(t.out, st.Kind, st.Err)
	} else if p, ok := st.Result.PNR(); ok {
		renderPNR(t.out, p)
	} else if r, ok := st.Result.Running(); ok {
		renderRunning(t.out, r)
	}
	switch {
	case !st.Loading:
	case st.Policy == lookups.SequenceGuarded:
		fmt.Fprintln(t.out, "(a newer lookup is still loading)")
	default:
		fmt.Fprintln(t.out, "(another lookup is still loading)")
	}
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// run reads commands from in until quit or EOF, then waits for outstanding lookups.
func (t *terminal) run(ctx context.Context, in io.Reader) error {
	defer func() {
		t.pnr.Wait()
		t.train.Wait()
	}()

	if t.views != nil {
		if n, err := t.views.RecordPageView(ctx); err == nil {
			t.printf("Visitors: %d\n", n)
		}
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "":
		case "pnr":
			t.submit(ctx, t.pnr, arg)
		case "train", "status":
			t.submit(ctx, t.train, arg)
		case "views":
			t.showViews(ctx)
		case "quit", "exit":
			return nil
		default:
			t.printf("%s\n", helpText)
		}
	}
	return sc.Err()
}

func (t *terminal) submit(ctx context.Context, s *lookups.Session, arg string) {
	s.SetInput(arg)
	s.Submit(ctx)
}

func (t *terminal) showViews(ctx context.Context) {
	if t.views == nil {
		t.printf("page views unavailable\n")
		return
	}
	n, err := t.views.PageViews(ctx)
	if err != nil {
		t.printf("page views unavailable: %v\n", err)
		return
	}
	t.printf("Visitors: %d\n", n)
}
