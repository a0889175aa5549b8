package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/aretw0/mindpages"
	lifecycleadapter "github.com/aretw0/mindpages/pkg/adapters/lifecycle"
	"github.com/aretw0/mindpages/pkg/core"
	"github.com/aretw0/mindpages/pkg/draft"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Start a line-oriented editing session",
	Long: `Reads editing commands from stdin, one per line:

  new                 create a page and edit it
  open <id>           edit another page
  title <text>        set the title
  body <text>         set the body
  tag +<t> | -<t>     add or remove a tag
  star                toggle the starred flag
  folder <name>       set the folder ("" to clear)
  delete <id>         delete a page
  show                print the draft
  list                list pages
  flush               commit the draft now
  state               print store and draft state as JSON
  quit                flush and exit

Drafts are committed automatically after the quiescence period.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		policy, err := mindpages.ParseSwitchPolicy(conf.GetString("switch"))
		if err != nil {
			fatal("Error parsing switch policy", err)
		}

		store, err := openStore()
		if err != nil {
			fatal("Error initializing store", err)
		}

		out := &lockedWriter{w: cmd.OutOrStdout()}
		syncer := mindpages.NewSynchronizer(store,
			mindpages.WithLogger(slog.Default()),
			mindpages.WithQuiescence(conf.GetDuration("quiescence")),
			mindpages.WithSwitchPolicy(policy),
			mindpages.WithOnCommit(func(p core.Page) {
				fmt.Fprintf(out, "saved %s (%s)\n", p.ID, p.Title)
			}),
		)

		s := &session{store: store, sync: syncer, out: out}
		if err := s.run(context.Background(), cmd.InOrStdin()); err != nil {
			fatal("Error in editing session", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().Duration("quiescence", draft.DefaultQuiescence, "Idle time before a draft is saved")
	editCmd.Flags().String("switch", "flush", "What to do with unsaved edits when opening another page: flush or discard")

	_ = conf.BindPFlag("quiescence", editCmd.Flags().Lookup("quiescence"))
	_ = conf.BindPFlag("switch", editCmd.Flags().Lookup("switch"))
}

// lockedWriter serializes writes from the session, the commit callback and
// the event printer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type session struct {
	store *core.Store
	sync  *draft.Synchronizer
	out   io.Writer
}

var errQuit = errors.New("quit")

// run reads commands from in until "quit" or EOF. Store events are printed
// as they happen. The draft is flushed before returning.
func (s *session) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	done := s.printEvents(ctx)
	defer func() {
		cancel()
		<-done
	}()

	if p, ok := s.store.Selected(ctx); ok {
		if err := s.open(ctx, p); err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		err := s.exec(ctx, line)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if _, err := s.sync.Flush(ctx); err != nil {
		return err
	}
	s.sync.Close()
	return nil
}

func (s *session) printEvents(ctx context.Context) <-chan struct{} {
	src := lifecycleadapter.NewSource(s.store.Watch(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range src.Events() {
			fmt.Fprintf(s.out, "event: %s\n", e.String())
		}
	}()
	_ = src.Start(ctx)
	return done
}

func (s *session) exec(ctx context.Context, line string) error {
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch verb {
	case "quit", "exit":
		return errQuit
	case "new":
		p, err := s.store.Create(ctx)
		if err != nil {
			return err
		}
		return s.open(ctx, p)
	case "open":
		p, err := s.store.Get(ctx, arg)
		if err != nil {
			return err
		}
		if err := s.store.Select(ctx, p.ID); err != nil {
			return err
		}
		return s.open(ctx, p)
	case "title":
		return s.sync.SetTitle(arg)
	case "body":
		return s.sync.SetBody(arg)
	case "folder":
		return s.sync.SetFolder(strings.Trim(arg, `"`))
	case "star":
		return s.sync.ToggleStarred()
	case "tag":
		switch {
		case strings.HasPrefix(arg, "+"):
			return s.sync.AddTag(strings.TrimPrefix(arg, "+"))
		case strings.HasPrefix(arg, "-"):
			return s.sync.RemoveTag(strings.TrimPrefix(arg, "-"))
		default:
			return fmt.Errorf("usage: tag +name | tag -name")
		}
	case "delete":
		return s.store.Delete(ctx, arg)
	case "show":
		p, ok := s.sync.Draft()
		if !ok {
			return draft.ErrNotEditing
		}
		fmt.Fprintf(s.out, "%s [%s]\n", pageLine(p), s.sync.Status())
		return nil
	case "list":
		pages, err := s.store.List(ctx)
		if err != nil {
			return err
		}
		return writePages(s.out, pages, false, false)
	case "flush":
		saved, err := s.sync.Flush(ctx)
		if err != nil {
			return err
		}
		if !saved {
			fmt.Fprintln(s.out, "nothing to save")
		}
		return nil
	case "state":
		encoder := json.NewEncoder(s.out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]any{
			s.store.ComponentType(): s.store.State(),
			s.sync.ComponentType():  s.sync.State(),
		})
	default:
		return fmt.Errorf("unknown command: %s", verb)
	}
}

func (s *session) open(ctx context.Context, p core.Page) error {
	if err := s.sync.BeginEditing(ctx, p); err != nil {
		return err
	}
	if d, ok := s.sync.Draft(); ok {
		p = d
	}
	fmt.Fprintf(s.out, "editing %s\n", pageLine(p))
	return nil
}
