package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/regionshot/internal/capture"
	"github.com/example/regionshot/internal/clipboard"
	"github.com/example/regionshot/internal/config"
	"github.com/example/regionshot/internal/hotkey"
	"github.com/example/regionshot/internal/logutil"
	"github.com/example/regionshot/internal/notify"
	"github.com/example/regionshot/internal/overlay"
	"github.com/example/regionshot/internal/session"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// Collaborators swapped out by tests.
var (
	captureRegionFn = capture.CaptureRegionRect
	captureScreenFn = capture.CaptureScreen
	listMonitorsFn  = capture.ListMonitors
	selectFn        = overlay.Select
	listenFn        = hotkey.Listen
	copyTextFn      = clipboard.WriteText
)

var clipboardImage session.Clipboard = clipboard.System{}

// notifier is what commands need from *notify.Notifier.
type notifier interface {
	session.Notifier
	Enable(notify.Event, bool)
}

var newNotifier = func(prefs notify.Preferences) notifier { return notify.New(prefs) }

type runnable interface{ Run() error }

type root struct {
	fs            *flag.FlagSet
	program       string
	configPath    string
	logFile       string
	themeName     string
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool

	loader   *config.Loader
	settings *config.Settings
	notifier notifier
	logger   io.Closer
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("regionshot", flag.ContinueOnError),
		program: "regionshot",
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "settings file to read and write")
	r.fs.StringVar(&r.logFile, "log-file", "", "append logs to this file (rotated at 10 MB)")
	r.fs.StringVar(&r.themeName, "theme", "", "overlay colour theme: default, high_contrast, light or a .theme file")
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", false, "show a desktop notification after capturing a region")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	r.fs.Usage = usageFunc(r)
	return r
}

// setup loads the environment and the settings file, then layers the
// command line on top: flags > environment > settings file > defaults.
func (r *root) setup() error {
	config.LoadDotenv()

	logPath := r.logFile
	if logPath == "" {
		logPath = strings.TrimSpace(os.Getenv(config.EnvLogFile))
	}
	closer, err := logutil.Setup(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	r.logger = closer

	r.notifier = newNotifier(notify.LoadPreferences())
	r.loader = config.NewLoader(version, r.configPath)
	settings, err := r.loader.Load()
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: %v\n", err)
		if errors.Is(err, config.ErrCorrupt) {
			r.notifier.Warn("Settings were reset to defaults")
		}
	}
	settings.ApplyEnv()

	r.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "notify-capture":
			settings.Notify.Capture = r.captureAlerts
		case "notify-save":
			settings.Notify.Save = r.saveAlerts
		case "notify-copy":
			settings.Notify.Copy = r.copyAlerts
		case "theme":
			settings.Theme = r.themeName
		}
	})
	r.notifier.Enable(notify.EventCapture, settings.Notify.Capture)
	r.notifier.Enable(notify.EventSave, settings.Notify.Save)
	r.notifier.Enable(notify.EventCopy, settings.Notify.Copy)
	r.settings = settings
	return nil
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "select":
		cmd, err = parseSelectCmd(subArgs, r)
	case "region":
		cmd, err = parseRegionCmd(subArgs, r)
	case "capture":
		cmd, err = parseCaptureCmd(subArgs, r)
	case "run":
		cmd, err = parseRunCmd(subArgs, r)
	case "template":
		cmd, err = parseTemplateCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{command: newCommand(r, "version")}
	default:
		return &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	if err := r.setup(); err != nil {
		return err
	}
	defer r.logger.Close()
	return cmd.Run()
}

// newSession wires the session to the real screen, disk and clipboard.
func (r *root) newSession() *session.Session {
	return session.New(r.settings, session.Deps{
		Screen:    session.ScreenFunc(captureRegionFn),
		Encoder:   session.Files{},
		Clipboard: clipboardImage,
		Store:     r.loader,
		Notifier:  r.notifier,
	})
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		switch {
		case errors.As(err, &uerr):
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		case errors.Is(err, flag.ErrHelp):
			os.Exit(0)
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
