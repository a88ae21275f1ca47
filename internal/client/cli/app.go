// Package cli is an interactive terminal client for the document library.
// It talks to the server over its JSON API and never stores credentials on
// disk; passwords are read without echo.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okarpovs/doclib/internal/client/api"
)

// APIClient is the server surface the CLI uses.
type APIClient interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) error
	Recover(ctx context.Context, email string) (string, error)
	Reset(ctx context.Context, email, token, newPassword string) error
	SaveText(ctx context.Context, content string) (*api.Document, error)
	Upload(ctx context.Context, filename string, content []byte) (*api.Document, error)
	List(ctx context.Context) ([]api.Document, error)
	Get(ctx context.Context, id string) (*api.Document, error)
	Delete(ctx context.Context, id string) error
	LoggedIn() bool
}

type App struct {
	client APIClient
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(client APIClient) *App {
	return &App{client: client, reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "doclib CLI (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, "doclib > ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "recover":
			a.recover(ctx)
		case "reset":
			a.reset(ctx)
		case "paste":
			a.paste(ctx)
		case "upload":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: upload <path>")
				continue
			}
			a.upload(ctx, args[0])
		case "list":
			a.list(ctx)
		case "get":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: get <id>")
				continue
			}
			a.get(ctx, args[0])
		case "delete":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: delete <id>")
				continue
			}
			a.delete(ctx, args[0])
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintf(a.out, "Unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (a *App) printHelp() {
	if a.client.LoggedIn() {
		fmt.Fprintln(a.out, "Available commands: paste, upload <path>, list, get <id>, delete <id>, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: register, login, recover, reset, exit")
	}
}

func (a *App) register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if err := a.client.Register(ctx, email, password); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintln(a.out, "Account created, you can login now")
}

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if err := a.client.Login(ctx, email, password); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintln(a.out, "Logged in")
}

func (a *App) recover(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	token, err := a.client.Recover(ctx, email)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintf(a.out, "Reset token: %s\n", token)
}

func (a *App) reset(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	token, err := GetSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	password, err := GetPassword(a.out, "Enter new password")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if err := a.client.Reset(ctx, email, token, password); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintln(a.out, "Password updated, you can login now")
}

func (a *App) paste(ctx context.Context) {
	content, err := GetMultiline(a.reader, "Paste document text", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	doc, err := a.client.SaveText(ctx, content)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintf(a.out, "Saved as %s (%s)\n", doc.ID, doc.Filename)
}

func (a *App) upload(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	doc, err := a.client.Upload(ctx, filepath.Base(path), data)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintf(a.out, "Saved as %s (%s)\n", doc.ID, doc.Filename)
}

func (a *App) list(ctx context.Context) {
	docs, err := a.client.List(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	if len(docs) == 0 {
		fmt.Fprintln(a.out, "No documents yet")
		return
	}
	for _, d := range docs {
		fmt.Fprintf(a.out, "%s  %s  %s\n", d.ID, d.CreatedAt.Format(time.RFC3339), d.Filename)
	}
}

func (a *App) get(ctx context.Context, id string) {
	doc, err := a.client.Get(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintf(a.out, "%s (%s)\n\n%s\n", doc.Filename, doc.MIME, doc.Content)
}

func (a *App) delete(ctx context.Context, id string) {
	if err := a.client.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintln(a.out, "Deleted")
}
