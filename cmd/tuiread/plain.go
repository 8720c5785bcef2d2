package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiread/internal/config"
	"github.com/verte-zerg/tuiread/internal/engine"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/stats"
	"github.com/verte-zerg/tuiread/internal/store"
	"github.com/verte-zerg/tuiread/internal/tokenize"
)

func newPlainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plain [file]",
		Short: "Print words to stdout at the reading pace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlainCmd,
	}
	addReaderFlags(cmd)
	return cmd
}

func runPlainCmd(cmd *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		log.Warn("history disabled", "err", err)
		st = nil
	} else {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				log.Error("failed to close db", "err", cerr)
			}
		}()
	}

	cfg, err := resolveReaderConfig(cmd, st)
	if err != nil {
		return err
	}
	doc, _, err := loadDocument(args, readerClipboard)
	if err != nil {
		return err
	}
	tokens := tokenize.Tokenize(doc.Text)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := bufio.NewWriter(cmd.OutOrStdout())
	printer := &tokenPrinter{tokens: tokens, last: -1}
	var done *model.CompletionStats
	frames := engine.NewLoopScheduler(cfg.Frame)
	eng := engine.New(engine.Options{
		Rate:    cfg.WPM,
		MinRate: cfg.MinWPM,
		MaxRate: cfg.MaxWPM,
		Frames:  frames,
		OnIndex: func(i int) {
			printer.emit(out, i)
		},
		OnComplete: func(c model.CompletionStats) {
			done = &c
		},
	})
	eng.LoadSequence(tokens)
	printer.emit(out, eng.Index())
	eng.Play()

	runErr := frames.Run(ctx)
	eng.Close()
	if err := out.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if done == nil {
		if runErr != nil {
			logErrf("stopped at word %d of %d\n", eng.Index()+1, eng.Len())
		}
		return nil
	}
	logErrf("read %d words in %s (%d wpm)\n", done.TotalTokens, stats.FormatSeconds(done.TotalTime), done.AverageWPM)
	if st != nil {
		saveSession(cmd.Context(), st, doc.Name, eng.Rate(), *done)
	}
	return nil
}

// tokenPrinter writes each newly published token once, filling in any
// tokens a coarse frame stepped over.
type tokenPrinter struct {
	tokens []model.Token
	last   int
}

func (p *tokenPrinter) emit(w *bufio.Writer, index int) {
	if index < 0 || index >= len(p.tokens) {
		return
	}
	from := p.last + 1
	if index < from {
		from = index
	}
	for i := from; i <= index; i++ {
		if _, err := fmt.Fprintln(w, p.tokens[i].Text); err != nil {
			log.Error("failed to write token", "err", err)
			return
		}
	}
	p.last = index
	if err := w.Flush(); err != nil {
		log.Error("failed to flush output", "err", err)
	}
}

func saveSession(ctx context.Context, st *store.Store, source string, rate int, c model.CompletionStats) {
	endedAt := time.Now()
	session := model.SessionStats{
		StartedAt:    endedAt.Add(-time.Duration(c.TotalTime * float64(time.Second))),
		EndedAt:      endedAt,
		Source:       source,
		Tokens:       c.TotalTokens,
		WPM:          rate,
		TotalSeconds: c.TotalTime,
		AverageWPM:   c.AverageWPM,
	}
	if _, err := st.InsertSession(ctx, session); err != nil {
		log.Error("failed to save session", "err", err)
	}
}

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "List tokens with their weights and due times",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTokensCmd,
	}
	addReaderFlags(cmd)
	return cmd
}

func runTokensCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveReaderConfig(cmd, nil)
	if err != nil {
		return err
	}
	doc, _, err := loadDocument(args, readerClipboard)
	if err != nil {
		return err
	}
	tokens := tokenize.Tokenize(doc.Text)
	schedule := engine.BuildSchedule(tokens, cfg.WPM)
	out := bufio.NewWriter(cmd.OutOrStdout())
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(out, "%6d  %4.2f  %9.3fs  %s\n", i, tok.Weight, schedule.Due(i).Seconds(), tok.Text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(out, "%d tokens, %s total at %d wpm\n", len(tokens), stats.FormatSeconds(schedule.Total().Seconds()), cfg.WPM); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return out.Flush()
}
