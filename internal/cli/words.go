package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/example/myglish/internal/dictionary"
	"github.com/example/myglish/internal/trainer"
)

func (a *App) runDictionary(ctx context.Context, args []string) error {
	fs := a.flagSet("dictionary")
	query := fs.String("q", "", "filter by word or translation")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	res, err := a.dict.Lookup(ctx, *query)
	if err != nil {
		return err
	}
	switch res.State {
	case dictionary.EmptyDictionary:
		fmt.Fprintln(a.out, "your dictionary is empty, add words to a lesson first")
		return nil
	case dictionary.NoMatches:
		fmt.Fprintf(a.out, "no words match %q\n", *query)
		return nil
	}
	for _, g := range res.Groups {
		fmt.Fprintln(a.out, g.Day.Format(dateLayout))
		for _, w := range g.Words {
			fmt.Fprintf(a.out, "  %s - %s\n", w.Word, w.Translation)
		}
	}
	return nil
}

func (a *App) runOrphans(ctx context.Context, args []string) error {
	fs := a.flagSet("orphans")
	purge := fs.Bool("delete", false, "delete the listed words")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	words, err := a.wordRepo.Orphans(ctx)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		fmt.Fprintln(a.out, "no orphan words")
		return nil
	}
	for _, w := range words {
		fmt.Fprintf(a.out, "%s - %s\n", w.Word, w.Translation)
	}
	if *purge {
		n, err := a.wordRepo.DeleteOrphans(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "deleted %d words\n", n)
	}
	return nil
}

func (a *App) runTrain(ctx context.Context, args []string) error {
	fs := a.flagSet("train")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	tr := trainer.New(a.wordRepo, a.rng())
	if err := tr.Start(ctx); err != nil {
		return err
	}
	if tr.State() == trainer.Empty {
		fmt.Fprintln(a.out, "no words to review yet")
		return nil
	}

	scanner := bufio.NewScanner(a.in)
	for {
		a.printCard(tr)
		if !scanner.Scan() {
			return scanner.Err()
		}

		var err error
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "f":
			err = tr.Flip()
		case "n", "":
			err = tr.Advance(ctx)
		case "s":
			err = tr.Reshuffle(ctx)
		case "q":
			return nil
		default:
			fmt.Fprintln(a.out, "f flip, n next, s shuffle, q quit")
		}
		if err != nil {
			return err
		}
		if tr.State() == trainer.Empty {
			fmt.Fprintln(a.out, "no words to review yet")
			return nil
		}
	}
}

func (a *App) printCard(tr *trainer.Trainer) {
	text, ok := tr.Text()
	if !ok {
		return
	}
	fmt.Fprintf(a.out, "[%d/%d] %s (%s)\n", tr.Index()+1, len(tr.Deck()), text, tr.Side())
}
