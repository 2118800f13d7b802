package agent

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler schedules and manages multiple agents.
type Scheduler struct {
	cron   *cron.Cron
	agents []Agent
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		agents: make([]Agent, 0),
	}
}

// RegisterAgent adds an agent to the scheduler. Agents with a schedule are
// wired into cron immediately.
func (s *Scheduler) RegisterAgent(agent Agent) {
	s.agents = append(s.agents, agent)

	schedule := agent.GetSchedule()
	if schedule != "" {
		_, err := s.cron.AddFunc(schedule, func() {
			log.Printf("🤖 [%s] Starting scheduled job...", agent.GetName())
			if err := agent.Execute(context.Background()); err != nil {
				log.Printf("❌ [%s] Job failed: %v", agent.GetName(), err)
			} else {
				log.Printf("✅ [%s] Job completed successfully", agent.GetName())
			}
		})

		if err != nil {
			log.Printf("⚠️ Failed to schedule agent %s: %v", agent.GetName(), err)
		} else {
			log.Printf("📅 [%s] Scheduled with cron: %s", agent.GetName(), schedule)
		}
	} else {
		log.Printf("📝 [%s] Registered as on-demand agent (no schedule)", agent.GetName())
	}
}

// Start runs the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("🚀 Agent Scheduler started with %d registered agents", len(s.agents))
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("🛑 Agent Scheduler stopped")
}

// RunAgentByName triggers one agent manually. Useful for testing or manual
// runs.
func (s *Scheduler) RunAgentByName(ctx context.Context, name string) error {
	for _, agent := range s.agents {
		if agent.GetName() == name {
			log.Printf("🎯 [%s] Running on-demand execution...", name)
			return agent.Execute(ctx)
		}
	}
	log.Printf("⚠️ Agent with name '%s' not found", name)
	return nil
}

// GetRegisteredAgents lists the names of all registered agents.
func (s *Scheduler) GetRegisteredAgents() []string {
	names := make([]string, len(s.agents))
	for i, agent := range s.agents {
		names[i] = agent.GetName()
	}
	return names
}
