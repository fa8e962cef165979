package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of  HelpData
	msg string
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	if e.msg != "" {
		return e.msg + "\n\n" + help
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of); err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

// usageFunc renders the command's help template to its flag set output.
func usageFunc(h HelpData) func() {
	return func() {
		help, err := (&UsageError{of: h}).renderHelp()
		if err != nil {
			return
		}
		out := h.FlagSet()
		if out == nil {
			return
		}
		fmt.Fprint(out.Output(), help)
	}
}

func (r *root) Template() string        { return "root.txt" }
func (s *selectCmd) Template() string   { return "select.txt" }
func (c *regionCmd) Template() string   { return "region.txt" }
func (c *captureCmd) Template() string  { return "capture.txt" }
func (c *runCmd) Template() string      { return "run.txt" }
func (c *templateCmd) Template() string { return "template.txt" }
func (c *configCmd) Template() string   { return "config.txt" }
func (v *versionCmd) Template() string  { return "version.txt" }

// command is embedded by every subcommand. It shares the root so settings
// loaded after parsing are visible when the command runs.
type command struct {
	*root
	fs   *flag.FlagSet
	name string
}

func newCommand(r *root, name string) command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if r != nil && r.stderr != nil {
		fs.SetOutput(r.stderr)
	}
	return command{root: r, fs: fs, name: name}
}

func (c command) Program() string {
	if c.root == nil {
		return "regionshot " + c.name
	}
	return c.root.program + " " + c.name
}

func (c command) FlagSet() *flag.FlagSet {
	return c.fs
}
