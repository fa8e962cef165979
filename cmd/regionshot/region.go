package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/regionshot/internal/capture"
	"github.com/example/regionshot/internal/config"
)

type regionCmd struct {
	command
	action string
	args   []string
}

func parseRegionCmd(args []string, r *root) (*regionCmd, error) {
	c := &regionCmd{command: newCommand(r, "region")}
	c.fs.Usage = usageFunc(c)
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
	case "show", "clear", "monitors":
	case "set":
		if len(c.args) == 0 {
			return nil, &UsageError{of: c, msg: "region set needs x,y,w,h"}
		}
	case "monitor":
		if len(c.args) != 1 {
			return nil, &UsageError{of: c, msg: "region monitor needs a monitor index"}
		}
	default:
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unknown region command %q", c.action)}
	}
	return c, nil
}

func (c *regionCmd) Run() error {
	switch c.action {
	case "show":
		if c.settings.Region == nil {
			fmt.Fprintln(c.stdout, "No region selected")
			return nil
		}
		fmt.Fprintln(c.stdout, c.settings.Region.String())
		return nil
	case "monitors":
		monitors, err := listMonitorsFn()
		if err != nil {
			return fmt.Errorf("list monitors: %w", err)
		}
		fmt.Fprint(c.stdout, capture.Describe(monitors))
		return nil
	}

	sess := c.newSession()
	switch c.action {
	case "clear":
		sess.ClearRegion()
		fmt.Fprintln(c.stdout, "Region cleared")
		return nil
	case "monitor":
		idx, err := strconv.Atoi(c.args[0])
		if err != nil {
			return fmt.Errorf("invalid monitor index %q", c.args[0])
		}
		monitors, err := listMonitorsFn()
		if err != nil {
			return fmt.Errorf("list monitors: %w", err)
		}
		if idx < 0 || idx >= len(monitors) {
			return fmt.Errorf("monitor %d not found (%d available)", idx, len(monitors))
		}
		region := config.RegionFromRect(monitors[idx].Rect)
		if err := sess.SetRegion(region); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Region %s\n", region)
		return nil
	}

	region, err := parseRegion(strings.Join(c.args, ","))
	if err != nil {
		return err
	}
	if err := sess.SetRegion(region); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Region %s\n", region)
	return nil
}

// parseRegion reads "x,y,w,h". Empty fields from joined arguments are
// skipped so "10, 20, 30, 40" also parses.
func parseRegion(s string) (config.Region, error) {
	var nums []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return config.Region{}, fmt.Errorf("invalid region %q: %w", s, err)
		}
		nums = append(nums, n)
	}
	if len(nums) != 4 {
		return config.Region{}, fmt.Errorf("invalid region %q: want x,y,w,h", s)
	}
	if nums[2] <= 0 || nums[3] <= 0 {
		return config.Region{}, fmt.Errorf("invalid region %q: width and height must be positive", s)
	}
	return config.Region{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}, nil
}
