// ABOUTME: Clock pack provides getCurrentTime, the current wall time in a fixed zone.
// ABOUTME: Defaults to Asia/Tokyo rendered as "YYYY-MM-DD HH:MM:SS JST".

package builtins

import (
	"context"
	"time"

	"github.com/2389/agentcore-bridge/internal/config"
	"github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/tools"
)

// ClockToolName is the registered name of the clock tool.
const ClockToolName = "getCurrentTime"

const clockLayout = "2006-01-02 15:04:05"

// jstOffset is used when the tz database has no entry for the configured zone.
const jstOffset = 9 * 60 * 60

// Clock formats the current time for one configured zone.
type Clock struct {
	loc   *time.Location
	label string
	now   func() time.Time
}

// NewClock resolves cfg's zone. An unknown zone falls back to a fixed UTC+9
// zone so the tool keeps working on hosts without tzdata.
func NewClock(cfg config.ClockConfig) *Clock {
	label := cfg.Label
	if label == "" {
		label = "JST"
	}
	loc, err := time.LoadLocation(cfg.Zone)
	if err != nil || cfg.Zone == "" {
		loc = time.FixedZone(label, jstOffset)
	}
	return &Clock{loc: loc, label: label, now: time.Now}
}

// Now renders the current time, e.g. "2024-01-01 12:00:00 JST".
func (c *Clock) Now() string {
	return c.now().In(c.loc).Format(clockLayout) + " " + c.label
}

// clockArgs is empty; getCurrentTime takes no arguments.
type clockArgs struct{}

func (c *Clock) handle(_ context.Context, _ clockArgs) (*mcp.ToolResult, error) {
	return mcp.TextResult(c.Now()), nil
}

// ClockPack returns the getCurrentTime tool.
func ClockPack(cfg config.ClockConfig) []*tools.Tool {
	c := NewClock(cfg)
	return []*tools.Tool{
		{
			Descriptor: tools.Descriptor{
				Name:        ClockToolName,
				Description: "Get the current date and time in " + c.label,
				InputSchema: tools.SchemaFor[clockArgs](),
			},
			Handler: tools.Typed(c.handle),
			Timeout: cfg.Timeout,
		},
	}
}
