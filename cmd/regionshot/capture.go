package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/example/regionshot/internal/config"
	"github.com/example/regionshot/internal/session"
)

type captureCmd struct {
	command
	count     int
	format    string
	dir       string
	template  string
	clipboard bool
	overwrite bool
	parsedFmt config.Format
}

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	c := &captureCmd{command: newCommand(r, "capture")}
	c.fs.Usage = usageFunc(c)
	c.fs.IntVar(&c.count, "count", 1, "number of captures to take")
	c.fs.StringVar(&c.format, "format", "", "image format: png or jpeg")
	c.fs.StringVar(&c.dir, "dir", "", "directory to save captures in")
	c.fs.StringVar(&c.template, "template", "", "file name template for this run")
	c.fs.BoolVar(&c.clipboard, "clipboard", true, "copy each capture to the clipboard")
	c.fs.BoolVar(&c.overwrite, "overwrite", false, "replace existing files instead of picking a free name")
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() > 0 {
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unexpected argument %q", c.fs.Arg(0))}
	}
	if c.count < 1 {
		return nil, fmt.Errorf("-count must be at least 1")
	}
	if c.format != "" {
		f, err := config.ParseFormat(c.format)
		if err != nil {
			return nil, err
		}
		c.parsedFmt = f
	}
	return c, nil
}

// apply layers the flags that were given explicitly over the loaded
// settings. Overrides last for this invocation only.
func (c *captureCmd) apply(s *config.Settings) {
	c.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			s.Format = c.parsedFmt
		case "dir":
			s.SaveDir = c.dir
		case "template":
			s.FileNameTemplate = c.template
		case "clipboard":
			s.CopyToClipboard = c.clipboard
		case "overwrite":
			s.AvoidOverwrite = !c.overwrite
		}
	})
}

func (c *captureCmd) Run() error {
	c.apply(c.settings)
	sess := c.newSession()
	if _, ok := sess.Region(); !ok {
		return fmt.Errorf("%w; run \"%s select\" or \"%s region set\" first", session.ErrNoRegion, c.root.program, c.root.program)
	}
	for i := 0; i < c.count; i++ {
		res, err := sess.Capture()
		if err != nil {
			return err
		}
		reportCapture(c.stdout, res)
	}
	return nil
}

func reportCapture(w io.Writer, res session.Result) {
	path := res.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if res.Copied {
		fmt.Fprintf(w, "Saved %s (copied to clipboard)\n", path)
		return
	}
	fmt.Fprintf(w, "Saved %s\n", path)
}
