package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/voicegate/voicegate/pkg/tool"
)

// Clock reports the current time, optionally in a named timezone.
type Clock struct {
	// now is swappable for tests.
	now func() time.Time
}

// NewClock creates the clock tool.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Name implements tool.Tool.
func (c *Clock) Name() string { return "clock" }

// Description implements tool.Tool.
func (c *Clock) Description() string {
	return "Get the current date and time, optionally for a specific IANA timezone"
}

// Parameters implements tool.Tool.
func (c *Clock) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"timezone": map[string]any{
				"type":        "string",
				"description": "IANA timezone name, e.g. \"Europe/Oslo\". Defaults to server local time.",
			},
		},
	}
}

// Execute returns the current time.
func (c *Clock) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	loc := time.Local
	tz, _ := params["timezone"].(string)
	if tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("clock: unknown timezone %q", tz)
		}
	}

	now := c.now().In(loc)
	return map[string]any{
		"time":     now.Format("15:04:05"),
		"date":     now.Format("2006-01-02"),
		"weekday":  now.Weekday().String(),
		"timezone": loc.String(),
	}, nil
}

// Format implements tool.Tool.
func (c *Clock) Format(result map[string]any) string {
	return fmt.Sprintf("Current time: %v on %v, %v (%v)",
		result["time"], result["weekday"], result["date"], result["timezone"])
}

// Verify Clock implements tool.Tool at compile time.
var _ tool.Tool = (*Clock)(nil)
