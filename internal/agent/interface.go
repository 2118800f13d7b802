package agent

import "context"

// Agent is the base interface every background agent implements. Each agent
// owns one specific task.
//
// Implementations:
//   - EventReminderAgent: emails active registrants the day before an event
type Agent interface {
	// GetName returns the agent's unique name (for logging and identification).
	GetName() string

	// GetSchedule returns the cron schedule string (e.g. "0 18 * * *").
	// Agents that only run on demand return an empty string.
	GetSchedule() string

	// Execute runs the agent's main task. The context carries cancellation
	// and timeouts.
	Execute(ctx context.Context) error
}
