package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/example/regionshot/internal/nametemplate"
)

type templateCmd struct {
	command
	count  int
	action string
	args   []string
}

func parseTemplateCmd(args []string, r *root) (*templateCmd, error) {
	c := &templateCmd{command: newCommand(r, "template")}
	c.fs.Usage = usageFunc(c)
	c.fs.IntVar(&c.count, "n", 3, "number of names to preview")
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	rest := c.fs.Args()
	if len(rest) == 0 {
		c.action = "show"
		return c, nil
	}
	c.action = strings.ToLower(rest[0])
	c.args = rest[1:]
	switch c.action {
	case "show", "preview", "examples", "history", "placeholders":
	case "use", "set":
		if len(c.args) != 1 {
			return nil, &UsageError{of: c, msg: fmt.Sprintf("template %s needs one argument", c.action)}
		}
	default:
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unknown template command %q", c.action)}
	}
	if c.count < 1 {
		return nil, fmt.Errorf("-n must be at least 1")
	}
	return c, nil
}

func (c *templateCmd) Run() error {
	switch c.action {
	case "show":
		fmt.Fprintln(c.stdout, c.settings.FileNameTemplate)
		return nil
	case "preview":
		tmpl := strings.Join(c.args, " ")
		for _, name := range c.newSession().Preview(tmpl, c.count) {
			fmt.Fprintln(c.stdout, name)
		}
		return nil
	case "examples":
		tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
		for i, ex := range nametemplate.Examples() {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, ex.Template, ex.Description)
		}
		return tw.Flush()
	case "placeholders":
		tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
		for _, p := range nametemplate.Placeholders() {
			fmt.Fprintf(tw, "{%s}\t%s\n", p.Token, p.Meaning)
		}
		return tw.Flush()
	case "history":
		if len(c.settings.FileNameHistory) == 0 {
			fmt.Fprintln(c.stdout, "No templates used yet")
			return nil
		}
		for i, h := range c.settings.FileNameHistory {
			fmt.Fprintf(c.stdout, "%d  %s\n", i+1, h)
		}
		return nil
	case "use":
		n, err := strconv.Atoi(c.args[0])
		examples := nametemplate.Examples()
		if err != nil || n < 1 || n > len(examples) {
			return fmt.Errorf("example %q not found, pick 1-%d", c.args[0], len(examples))
		}
		return c.use(examples[n-1].Template, true)
	}
	return c.use(c.args[0], false)
}

// use makes tmpl the active template. Examples are also copied to the
// clipboard so they can be pasted and tweaked.
func (c *templateCmd) use(tmpl string, copyText bool) error {
	sess := c.newSession()
	sess.SetTemplate(tmpl)
	fmt.Fprintf(c.stdout, "Template %s\n", sess.Settings().FileNameTemplate)
	if !copyText {
		return nil
	}
	if err := copyTextFn(tmpl); err != nil {
		log.Printf("copy template to clipboard: %v", err)
		return nil
	}
	c.notifier.Copy(tmpl)
	return nil
}
