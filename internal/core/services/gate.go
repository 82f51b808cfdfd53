package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/partsledger/internal/apperrors"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
)

// PostingGate admits mutating units of work and can be closed for a
// consistent backup. A closed gate rejects new work immediately and reopens
// by itself after maxHold.
type PostingGate struct {
	mu         sync.Mutex
	cond       *sync.Cond
	active     int
	closed     bool
	generation uint64
	maxHold    time.Duration
	timer      *time.Timer
}

// NewPostingGate creates an open gate. A maxHold of zero disables auto-resume.
func NewPostingGate(maxHold time.Duration) *PostingGate {
	g := &PostingGate{maxHold: maxHold}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Enter registers one in-flight mutation. The returned func must be called when it ends.
func (g *PostingGate) Enter() (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, apperrors.ErrUnavailable
	}
	g.active++
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.active--
			if g.active == 0 {
				g.cond.Broadcast()
			}
			g.mu.Unlock()
		})
	}, nil
}

// Quiesce closes the gate and waits for in-flight mutations to finish.
// If ctx ends first the gate is reopened and ctx's error returned.
func (g *PostingGate) Quiesce(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return fmt.Errorf("%w: postings are already quiesced", apperrors.ErrConflict)
	}
	g.closed = true
	g.generation++
	gen := g.generation

	stop := context.AfterFunc(ctx, func() {
		g.mu.Lock()
		g.cond.Broadcast()
		g.mu.Unlock()
	})
	defer stop()

	for g.active > 0 {
		if !g.closed || g.generation != gen {
			return fmt.Errorf("%w: quiesce superseded by resume", apperrors.ErrConflict)
		}
		if err := ctx.Err(); err != nil {
			g.closed = false
			g.generation++
			return fmt.Errorf("waiting for in-flight postings: %w", err)
		}
		g.cond.Wait()
	}
	if !g.closed || g.generation != gen {
		return fmt.Errorf("%w: quiesce superseded by resume", apperrors.ErrConflict)
	}

	if g.maxHold > 0 {
		g.timer = time.AfterFunc(g.maxHold, func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			if g.closed && g.generation == gen {
				g.closed = false
				g.timer = nil
				slog.Warn("Posting gate resumed automatically", slog.Duration("max_hold", g.maxHold))
			}
		})
	}
	return nil
}

// Resume reopens the gate. Resuming an open gate is a no-op.
func (g *PostingGate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.closed = false
	g.generation++
	g.cond.Broadcast()
}

// Hold quiesces the gate, runs fn and resumes, whatever fn returns.
func (g *PostingGate) Hold(ctx context.Context, fn func(context.Context) error) error {
	if err := g.Quiesce(ctx); err != nil {
		return err
	}
	defer g.Resume()
	return fn(ctx)
}

// Closed reports whether new mutations are being rejected.
func (g *PostingGate) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// gatedUnitOfWork runs every WithinTx through a PostingGate. Reads are never gated.
type gatedUnitOfWork struct {
	inner portsrepo.UnitOfWork
	gate  *PostingGate
}

// NewGatedUnitOfWork wraps inner so that mutations fail with ErrUnavailable while gate is closed.
func NewGatedUnitOfWork(inner portsrepo.UnitOfWork, gate *PostingGate) portsrepo.UnitOfWork {
	return &gatedUnitOfWork{inner: inner, gate: gate}
}

func (u *gatedUnitOfWork) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	leave, err := u.gate.Enter()
	if err != nil {
		return err
	}
	defer leave()
	return u.inner.WithinTx(ctx, fn)
}

func (u *gatedUnitOfWork) View(ctx context.Context, fn portsrepo.TxFunc) error {
	return u.inner.View(ctx, fn)
}

type maintenanceService struct {
	BaseService
	gate *PostingGate
}

// NewMaintenanceService exposes the posting gate to operators.
func NewMaintenanceService(gate *PostingGate) portssvc.MaintenanceSvc {
	return &maintenanceService{gate: gate}
}

var _ portssvc.MaintenanceSvc = (*maintenanceService)(nil)

func (s *maintenanceService) Quiesce(ctx context.Context) error {
	if err := s.gate.Quiesce(ctx); err != nil {
		s.LogError(ctx, err, "Failed to quiesce postings")
		return err
	}
	s.LogInfo(ctx, "Postings quiesced")
	return nil
}

func (s *maintenanceService) Resume(ctx context.Context) error {
	s.gate.Resume()
	s.LogInfo(ctx, "Postings resumed")
	return nil
}

func (s *maintenanceService) Quiesced() bool {
	return s.gate.Closed()
}
