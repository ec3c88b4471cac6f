package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/theme"
)

var (
	listWindowsFn  = capture.ListWindows
	listMonitorsFn = capture.ListMonitors
)

type windowsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseWindowsCmd(args []string, r *root) (*windowsCmd, error) {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	cmd := &windowsCmd{root: r, fs: fs}
	fs.SetOutput(os.Stderr)
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *windowsCmd) Run() error {
	windows, err := listWindowsFn()
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		fmt.Fprintln(c.stdout, "no windows available")
		return nil
	}
	fmt.Fprintln(c.stdout, "available windows (* marks the active window):")
	for _, win := range windows {
		marker := " "
		if win.Active {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %s\n", marker, formatWindowLabel(win))
	}
	fmt.Fprintln(c.stdout, "selectors for capture -window: active, index:<n>, id:<hex>, pid:<pid>, exec:<name>, class:<name>, title:<text>")
	return nil
}

func formatWindowLabel(win capture.WindowInfo) string {
	title := strings.TrimSpace(win.Title)
	if title == "" {
		title = "(untitled)"
	}
	parts := []string{fmt.Sprintf("%2d: %s", win.Index, title)}
	if win.Executable != "" {
		parts = append(parts, fmt.Sprintf("exec=%s", win.Executable))
	} else if win.Class != "" {
		parts = append(parts, fmt.Sprintf("class=%s", win.Class))
	}
	if win.PID != 0 {
		parts = append(parts, fmt.Sprintf("pid=%d", win.PID))
	}
	r := win.Rect
	parts = append(parts, fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y))
	return strings.Join(parts, " ")
}

func (c *windowsCmd) Program() string        { return c.subProgram("windows") }
func (c *windowsCmd) FlagSet() *flag.FlagSet { return c.fs }

type monitorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseMonitorsCmd(args []string, r *root) (*monitorsCmd, error) {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	cmd := &monitorsCmd{root: r, fs: fs}
	fs.SetOutput(os.Stderr)
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *monitorsCmd) Run() error {
	monitors, err := listMonitorsFn()
	if err != nil {
		return err
	}
	if len(monitors) == 0 {
		fmt.Fprintln(c.stdout, "no monitors available")
		return nil
	}
	fmt.Fprintln(c.stdout, "available monitors (* marks the primary monitor):")
	for _, m := range monitors {
		marker := " "
		if m.Primary {
			marker = "*"
		}
		r := m.Rect
		fmt.Fprintf(c.stdout, "%s %2d: %-12s %dx%d+%d+%d\n", marker, m.Index, m.Name, r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
	}
	return nil
}

func (c *monitorsCmd) Program() string        { return c.subProgram("monitors") }
func (c *monitorsCmd) FlagSet() *flag.FlagSet { return c.fs }

type themesCmd struct {
	*root
	fs   *flag.FlagSet
	name string
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ContinueOnError)
	cmd := &themesCmd{root: r, fs: fs}
	fs.SetOutput(os.Stderr)
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		cmd.name = fs.Arg(0)
	default:
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *themesCmd) Run() error {
	loader := theme.NewLoader()
	loader.Inline = c.config.Themes
	if c.name != "" {
		th, err := loader.Load(c.name)
		if err != nil {
			return err
		}
		fmt.Fprint(c.stdout, th.String())
		return nil
	}

	active := ""
	if c.activeTheme != nil {
		active = c.activeTheme.Name
	}
	fmt.Fprintln(c.stdout, "available themes (* marks the active theme):")
	names := theme.Names()
	for name := range c.config.Themes {
		names = append(names, name)
	}
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		th, err := loader.Load(name)
		if err != nil {
			fmt.Fprintf(c.stdout, "  %s (%v)\n", name, err)
			continue
		}
		marker := " "
		if strings.EqualFold(th.Name, active) || strings.EqualFold(name, active) {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %s\n", marker, name)
	}
	return nil
}

func (c *themesCmd) Program() string        { return c.subProgram("themes") }
func (c *themesCmd) FlagSet() *flag.FlagSet { return c.fs }
