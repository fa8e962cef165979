package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/regionshot/internal/hotkey"
	"github.com/example/regionshot/internal/session"
)

var notifyContext = signal.NotifyContext

type runCmd struct {
	command
	hotkey string
	stdin  bool
}

func parseRunCmd(args []string, r *root) (*runCmd, error) {
	c := &runCmd{command: newCommand(r, "run")}
	c.fs.Usage = usageFunc(c)
	c.fs.StringVar(&c.hotkey, "hotkey", "", "key combination that triggers a capture (default from settings)")
	c.fs.BoolVar(&c.stdin, "stdin", false, "also capture when a line is read from standard input")
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() > 0 {
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unexpected argument %q", c.fs.Arg(0))}
	}
	return c, nil
}

func (c *runCmd) Run() error {
	keys := c.hotkey
	if keys == "" {
		keys = c.settings.Hotkey
	}
	combo, err := hotkey.Parse(keys)
	if err != nil {
		return fmt.Errorf("hotkey %q: %w", keys, err)
	}

	sess := c.newSession()
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("%v", err)
		}
	}()
	if _, ok := sess.Region(); !ok {
		fmt.Fprintf(c.stderr, "warning: %v; captures will fail until one is set\n", session.ErrNoRegion)
	}

	ctx, stop := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Presses arrive on the hook goroutine; captures happen here only.
	presses := make(chan struct{}, 1)
	trigger := func() {
		select {
		case presses <- struct{}{}:
		default:
		}
	}
	listenErr := make(chan error, 1)
	go func() { listenErr <- listenFn(ctx, combo, trigger) }()
	if c.stdin {
		go readLines(c.stdinReader(), trigger)
	}
	fmt.Fprintf(c.stderr, "Press %s to capture, Ctrl+C to stop\n", combo)

	listening := true
	for {
		select {
		case <-ctx.Done():
			if listening {
				<-listenErr
			}
			return nil
		case err := <-listenErr:
			listening = false
			if err == nil {
				return nil
			}
			fmt.Fprintf(c.stderr, "warning: hotkey %s unavailable: %v\n", combo, err)
			c.notifier.Warn(fmt.Sprintf("Hotkey %s could not be registered", combo))
			if !c.stdin {
				c.stdin = true
				fmt.Fprintln(c.stderr, "Press Enter to capture instead")
				go readLines(c.stdinReader(), trigger)
			}
		case <-presses:
			res, err := sess.Capture()
			if err != nil {
				log.Printf("capture: %v", err)
				fmt.Fprintf(c.stderr, "capture failed: %v\n", err)
				continue
			}
			reportCapture(c.stdout, res)
		}
	}
}

func (c *runCmd) stdinReader() io.Reader {
	if c.root != nil && c.root.stdin != nil {
		return c.root.stdin
	}
	return os.Stdin
}

func readLines(r io.Reader, fn func()) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fn()
	}
}
