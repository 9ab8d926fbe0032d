package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	mindshift "github.com/mindshifting/mindshift"
	"github.com/mindshifting/mindshift/internal/config"
	"github.com/mindshifting/mindshift/internal/presentation/tui"
	"github.com/mindshifting/mindshift/pkg/domain"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	ConfigPath string
	SessionID  string
	UserID     string
	FirstName  string
	Plain      bool // skip banner and markdown rendering
}

// RunSession drives one interactive session on stdin/stdout. The
// session resumes if the ID already exists, otherwise a new one starts.
// `/undo` rolls back one step, `/quit` leaves the session resumable.
func RunSession(opts RunOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := NewLogger(cfg.Log.Level)

	engine, cleanup, err := BuildEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	interactive := term.IsTerminal(int(os.Stdin.Fd())) && !opts.Plain
	render := func(s string) string { return s }
	if interactive {
		tui.PrintBanner()
		markdown := tui.NewRenderer()
		render = func(s string) string {
			if out, err := markdown(s); err == nil {
				return out
			}
			return s
		}
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	userID := opts.UserID
	if userID == "" {
		userID = "local"
	}

	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	result, err := engine.Start(ctx, sessionID, userID, opts.FirstName)
	switch {
	case errors.Is(err, domain.ErrSessionExists):
		state, loadErr := engine.State(ctx, sessionID)
		if loadErr != nil {
			return loadErr
		}
		if state.Status == domain.StatusCompleted {
			return fmt.Errorf("session %s is already complete", sessionID)
		}
		fmt.Printf("Resuming session %s at %s\n\n", sessionID, state.CurrentStep)
	case err != nil:
		return err
	default:
		fmt.Printf("Session %s\n", sessionID)
		fmt.Print(render(result.Message))
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "":
			continue
		case "/quit", "/exit":
			fmt.Printf("Session saved. Resume with --session %s\n", sessionID)
			return nil
		case "/undo":
			undo, err := engine.Undo(ctx, sessionID, userID, "")
			if err != nil {
				return err
			}
			if !undo.Success {
				fmt.Println("Nothing to undo yet.")
				continue
			}
			fmt.Printf("Went back to %s.\n", undo.CurrentStep)
			continue
		}

		turn, err := engine.Continue(ctx, sessionID, userID, input)
		if err != nil {
			return err
		}
		fmt.Print(render(turn.Message))

		if turn.SessionComplete {
			printSummary(ctx, engine, sessionID)
			return nil
		}
	}

	if ctx.Signal() != nil {
		fmt.Printf("\nInterrupted. Resume with --session %s\n", sessionID)
	}
	return scanner.Err()
}

func printSummary(ctx *SignalContext, engine *mindshift.Engine, sessionID string) {
	state, err := engine.State(ctx, sessionID)
	if err != nil {
		return
	}
	fmt.Printf("\nSession complete: %d scripted, %d generated replies (%.1f%% AI)\n",
		state.Stats.ScriptedCount,
		state.Stats.AICount,
		state.Stats.AIUsagePercent(),
	)
}
