package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/gavelhq/gavel/internal/auction"
	"github.com/gavelhq/gavel/internal/session"
	"github.com/gavelhq/gavel/internal/tui"
	"github.com/gavelhq/gavel/pkg/client"
	"github.com/gavelhq/gavel/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir, err := gavelDir()
	if err != nil {
		return err
	}
	log := newLogger(dir, cfg.LogLevel)

	store := session.NewStore(filepath.Join(dir, "session.json"), log)
	if err := store.Load(); err != nil {
		log.WithError(err).Warn("could not restore session")
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("gavel " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			return runLogin(cfg, store)
		case "signup":
			return runSignup(cfg, store)
		case "logout":
			return runLogout(cfg, store)
		}
	}

	c := client.New(cfg.APIURL, store)
	ctrl := auction.NewController(c, store, log)

	app := tui.NewApp(c, ctrl, store, version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// newLogger writes JSON logs to ~/.gavel/gavel.log; the TUI owns
// stdout. Logging failures are swallowed rather than breaking the app.
func newLogger(dir, level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	f, err := os.OpenFile(filepath.Join(dir, "gavel.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	log.SetOutput(f)
	return log
}

func runLogin(cfg Config, store *session.Store) error {
	username, password, err := promptCredentials()
	if err != nil {
		return err
	}

	c := client.New(cfg.APIURL, client.StaticToken(""))
	result, err := c.Login(context.Background(), username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	sess := domain.Session{
		User:         &domain.User{Username: result.Username, Email: result.Email},
		IsAdmin:      result.IsAdmin,
		AccessToken:  result.Tokens.Access,
		RefreshToken: result.Tokens.Refresh,
	}
	if err := store.Login(sess); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n", result.Username)
	return nil
}

func runSignup(cfg Config, store *session.Store) error {
	reader := bufio.NewReader(os.Stdin)
	username, err := promptLine(reader, "Username: ")
	if err != nil {
		return err
	}
	email, err := promptLine(reader, "Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	c := client.New(cfg.APIURL, client.StaticToken(""))
	if err := c.Signup(context.Background(), username, email, password, confirm); err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	// Sign in straight away with the new account.
	result, err := c.Login(context.Background(), username, password)
	if err != nil {
		return fmt.Errorf("account created but login failed: %w", err)
	}
	sess := domain.Session{
		User:         &domain.User{Username: result.Username, Email: result.Email},
		IsAdmin:      result.IsAdmin,
		AccessToken:  result.Tokens.Access,
		RefreshToken: result.Tokens.Refresh,
	}
	if err := store.Login(sess); err != nil {
		return err
	}
	fmt.Printf("Welcome, %s\n", result.Username)
	return nil
}

func runLogout(cfg Config, store *session.Store) error {
	if !store.Current().Authenticated() {
		fmt.Println("Already signed out.")
		return nil
	}
	// Best effort; the local session is cleared regardless.
	c := client.New(cfg.APIURL, store)
	if err := c.Logout(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: server logout failed: %v\n", err)
	}
	if err := store.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func promptCredentials() (string, string, error) {
	reader := bufio.NewReader(os.Stdin)
	username, err := promptLine(reader, "Username: ")
	if err != nil {
		return "", "", err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func printHelp() {
	fmt.Print(`gavel - terminal client for the car auction marketplace

usage:
  gavel            launch the TUI
  gavel login      sign in with username and password
  gavel signup     create an account
  gavel logout     sign out and clear the local session
  gavel version    print the version

environment:
  GAVEL_API_URL    override the auction service base URL

config:
  ~/.gavel/config.toml   api_url, log_level
`)
}
