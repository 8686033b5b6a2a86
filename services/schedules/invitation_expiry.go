package schedules

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// InvitationExpirer transitions stale pending invitations to expired.
type InvitationExpirer interface {
	ExpireStaleInvitations() (int, error)
}

// InvitationExpiryPool runs the expiry sweep on a cron schedule.
type InvitationExpiryPool struct {
	cron     *cron.Cron
	expirer  InvitationExpirer
	schedule string
	entryID  cron.EntryID
	mu       sync.Mutex
	running  bool
}

func CreateInvitationExpiryPool(expirer InvitationExpirer, schedule string) *InvitationExpiryPool {
	return &InvitationExpiryPool{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
			cron.Recover(cron.DiscardLogger),
		)),
		expirer:  expirer,
		schedule: schedule,
	}
}

// Sweep expires stale invitations once and returns how many changed.
func (p *InvitationExpiryPool) Sweep() int {
	count, err := p.expirer.ExpireStaleInvitations()
	if err != nil {
		log.WithError(err).WithField("context", "schedules").Error("invitation expiry sweep failed")
		return 0
	}

	if count > 0 {
		log.WithFields(log.Fields{
			"context": "schedules",
			"expired": count,
		}).Info("expired stale invitations")
	}

	return count
}

// Start registers the sweep and starts the scheduler. An empty schedule disables it.
func (p *InvitationExpiryPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	if p.schedule == "" {
		log.WithField("context", "schedules").Info("invitation expiry sweep disabled")
		return nil
	}

	id, err := p.cron.AddFunc(p.schedule, func() { p.Sweep() })
	if err != nil {
		return fmt.Errorf("invalid invitation sweep schedule %q: %w", p.schedule, err)
	}

	p.entryID = id
	p.cron.Start()
	p.running = true

	log.WithFields(log.Fields{
		"context":  "schedules",
		"schedule": p.schedule,
	}).Info("invitation expiry sweep scheduled")

	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (p *InvitationExpiryPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	ctx := p.cron.Stop()
	<-ctx.Done()

	p.cron.Remove(p.entryID)
	p.running = false
}

func (p *InvitationExpiryPool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
