// Package cli implements the dailyword command line: one command per
// invocation, printed to the configured writer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dailyword/internal/client/client"
)

var ErrUsage = errors.New("usage: dailyword [flags] versions | info <code> | daily [YYYY-MM-DD] | passage <reading-id> | fetch <reference> | prefer <code>")

type scripture interface {
	Versions(ctx context.Context) ([]client.Version, string, error)
	VersionInfo(ctx context.Context, code string) (string, error)
	Passage(ctx context.Context, readingID int64, version string) (*client.Passage, error)
	Daily(ctx context.Context, date, version string) (*client.Passage, error)
	Fetch(ctx context.Context, reference, version string) (*client.Passage, error)
	SetPreferred(ctx context.Context, code string) (*client.Version, error)
}

type App struct {
	api     scripture
	version string
	out     io.Writer
}

// NewApp returns an App asking for version (empty lets the server choose).
func NewApp(api scripture, version string, out io.Writer) *App {
	return &App{api: api, version: version, out: out}
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "versions":
		return a.versions(ctx)
	case "info":
		if len(rest) != 1 {
			return ErrUsage
		}
		return a.info(ctx, rest[0])
	case "daily":
		date := ""
		if len(rest) > 0 {
			date = rest[0]
		}
		return a.show(a.api.Daily(ctx, date, a.version))
	case "passage":
		if len(rest) != 1 {
			return ErrUsage
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("reading id %q: %w", rest[0], ErrUsage)
		}
		return a.show(a.api.Passage(ctx, id, a.version))
	case "fetch":
		if len(rest) == 0 {
			return ErrUsage
		}
		return a.show(a.api.Fetch(ctx, strings.Join(rest, " "), a.version))
	case "prefer":
		if len(rest) != 1 {
			return ErrUsage
		}
		v, err := a.api.SetPreferred(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Preferred version set to %s (%s)\n", v.Code, v.Title)
		return nil
	case "help":
		fmt.Fprintln(a.out, ErrUsage.Error())
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, ErrUsage)
	}
}

func (a *App) versions(ctx context.Context) error {
	versions, def, err := a.api.Versions(ctx)
	if err != nil {
		return err
	}
	for _, v := range versions {
		marker := " "
		if v.Code == def {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %-6s %s\n", marker, v.Code, v.Title)
	}
	return nil
}

func (a *App) info(ctx context.Context, code string) error {
	name, err := a.api.VersionInfo(ctx, code)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s\n", code, name)
	return nil
}

func (a *App) show(p *client.Passage, err error) error {
	if err != nil {
		return err
	}
	header := p.Reference
	if p.Title != "" {
		header = p.Title + " (" + p.Reference + ")"
	}
	if p.Date != "" {
		header = p.Date + "  " + header
	}
	fmt.Fprintf(a.out, "%s [%s]\n\n%s\n", header, p.Version, p.Content)
	return nil
}
