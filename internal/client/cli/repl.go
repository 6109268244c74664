package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Refresh(ctx context.Context) error
	Feed(ctx context.Context) error
	Post(ctx context.Context) error
	Like(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the GophFeed CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches to methods on 'a'. Commands that need a session are
// refused while logged out. Prompts inside commands read from the same
// reader, so lines are consumed one at a time. The loop exits on EOF, when
// ctx is done,
// or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - (l)feed        — reload and show the feed
//	  - post           — publish a post
//	  - like <id>      — like or unlike a post
//	  - delete <id>    — delete one of your posts
//	  - stats          — feed totals
//	  - whoami, profile, refresh, logout
//
// Handlers print their own errors, so returned errors are ignored here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gf %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)feed, post, like <id>, delete <id>, stats, whoami, profile, refresh, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}
			continue

		case "register":
			_ = a.Register(ctx)
			continue

		case "login":
			_ = a.Login(ctx)
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if isSessionCommand(cmd) {
				printlnFn("Please log in first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "l", "feed":
			_ = a.Feed(ctx)
		case "post":
			_ = a.Post(ctx)
		case "like":
			_ = a.Like(ctx, args)
		case "delete":
			_ = a.Delete(ctx, args)
		case "stats":
			_ = a.Stats(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "profile":
			_ = a.Profile(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "logout":
			_ = a.Logout(ctx)
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func isSessionCommand(cmd string) bool {
	switch cmd {
	case "l", "feed", "post", "like", "delete", "stats", "whoami", "profile", "refresh", "logout":
		return true
	}
	return false
}
