package main

import (
	"fmt"
	"os"
)

type configCmd struct {
	command
	action string
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	c := &configCmd{command: newCommand(r, "config")}
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.action = c.fs.Arg(0)
	switch c.action {
	case "print", "save", "path":
	default:
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unknown config command: %s", c.action)}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	switch c.action {
	case "print":
		fmt.Fprint(c.stdout, c.settings.String())
		return nil
	case "path":
		path := c.loader.Path()
		if path == "" {
			p, err := c.loader.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		if _, err := os.Stat(path); err != nil {
			path += " (not created yet)"
		}
		fmt.Fprintln(c.stdout, path)
		return nil
	}
	path, err := c.loader.Save(c.settings)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Fprintf(c.stderr, "Settings saved to %s\n", path)
	return nil
}
