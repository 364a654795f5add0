package cliconfig

import (
	"fmt"
	"strings"

	"github.com/bft-labs/lifebind/pkg/lifecycle"
)

// ParseScript parses a comma-separated list of lifecycle events such as
// "create,start,destroy". Blank entries are skipped.
func ParseScript(script string) ([]lifecycle.Event, error) {
	var events []lifecycle.Event
	for i, part := range strings.Split(script, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		e, err := lifecycle.ParseEvent(part)
		if err != nil {
			return nil, fmt.Errorf("script step %d: %w", i+1, err)
		}
		events = append(events, e)
	}
	return events, nil
}
