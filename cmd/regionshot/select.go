package main

import (
	"errors"
	"fmt"

	"github.com/example/regionshot/internal/overlay"
	"github.com/example/regionshot/internal/theme"
)

type selectCmd struct {
	command
	captureAfter bool
}

func parseSelectCmd(args []string, r *root) (*selectCmd, error) {
	s := &selectCmd{command: newCommand(r, "select")}
	s.fs.Usage = usageFunc(s)
	s.fs.BoolVar(&s.captureAfter, "capture", false, "capture the new region immediately")
	if err := s.fs.Parse(args); err != nil {
		return nil, err
	}
	if s.fs.NArg() > 0 {
		return nil, &UsageError{of: s, msg: fmt.Sprintf("unexpected argument %q", s.fs.Arg(0))}
	}
	return s, nil
}

func (s *selectCmd) Run() error {
	sess := s.newSession()

	backdrop, bounds, err := captureScreenFn()
	if err != nil {
		return fmt.Errorf("failed to capture screen: %w", err)
	}
	th, err := theme.NewLoader().Load(sess.Settings().Theme)
	if err != nil {
		fmt.Fprintf(s.stderr, "warning: %v; using the default theme\n", err)
		th = theme.Default()
	}
	region, err := selectFn(overlay.Options{
		Backdrop: backdrop,
		Screen:   bounds,
		Window:   sess.Settings().Window,
		Theme:    th,
		Geometry: sess.SetWindow,
	})
	if errors.Is(err, overlay.ErrCancelled) {
		fmt.Fprintln(s.stderr, "Selection cancelled; region unchanged")
		return nil
	}
	if err != nil {
		return fmt.Errorf("select region: %w", err)
	}
	if err := sess.SetRegion(region); err != nil {
		return err
	}
	fmt.Fprintf(s.stdout, "Region %s\n", region)
	if !s.captureAfter {
		return nil
	}
	res, err := sess.Capture()
	if err != nil {
		return err
	}
	reportCapture(s.stdout, res)
	return nil
}
