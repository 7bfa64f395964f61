package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/planner.txt
var plannerRaw string

// Planner returns the planner system prompt. The embed is compile-time,
// so this is safe to call concurrently.
func Planner() string {
	return strings.TrimSpace(plannerRaw)
}
