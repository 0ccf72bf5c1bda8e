package reservation

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"github.com/sirupsen/logrus"
)

// Result counts what one sweep did.
type Result struct {
	CheckedIn  int `json:"checked_in"`
	CheckedOut int `json:"checked_out"`
	Failed     int `json:"failed"`
}

// Reconciler moves reservations along as wall-clock time passes check-in
// and check-out instants.
type Reconciler struct {
	svc         *Service
	interval    time.Duration
	itemTimeout time.Duration
	log         *logrus.Logger
}

func NewReconciler(svc *Service, interval, itemTimeout time.Duration, log *logrus.Logger) *Reconciler {
	return &Reconciler{
		svc:         svc,
		interval:    interval,
		itemTimeout: itemTimeout,
		log:         log,
	}
}

// ReconcileAll checks in every due confirmed reservation, then checks out
// every due checked-in one. Item failures are logged and counted; only a
// failure to list due items aborts the sweep.
func (r *Reconciler) ReconcileAll(ctx context.Context) (Result, error) {
	var res Result

	now := r.svc.clock.Now()
	ids, err := r.svc.reservations.DueForCheckIn(ctx, now)
	if err != nil {
		return res, err
	}
	for _, id := range ids {
		changed, err := r.advance(ctx, id, domain.ReservationConfirmed)
		switch {
		case err != nil:
			res.Failed++
		case changed:
			res.CheckedIn++
		}
	}

	// listed after check-ins so stays that are already over leave in one sweep
	ids, err = r.svc.reservations.DueForCheckOut(ctx, r.svc.clock.Now())
	if err != nil {
		return res, err
	}
	for _, id := range ids {
		changed, err := r.advance(ctx, id, domain.ReservationCheckedIn)
		switch {
		case err != nil:
			res.Failed++
		case changed:
			res.CheckedOut++
		}
	}
	return res, nil
}

func (r *Reconciler) advance(ctx context.Context, id int64, from domain.ReservationStatus) (bool, error) {
	itemCtx := ctx
	if r.itemTimeout > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(ctx, r.itemTimeout)
		defer cancel()
	}

	changed, err := r.svc.advanceIfDue(itemCtx, id, from)
	if err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"reservation_id": id,
			"from":           from,
		}).Warn("reconcile item failed")
	}
	return changed, err
}

// ReconcileOne applies the same two checks to a single reservation. Nothing
// due is not an error.
func (r *Reconciler) ReconcileOne(ctx context.Context, id int64) error {
	res, err := r.svc.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status.IsTerminal() {
		return nil
	}
	if _, err := r.svc.advanceIfDue(ctx, id, domain.ReservationConfirmed); err != nil {
		return err
	}
	_, err = r.svc.advanceIfDue(ctx, id, domain.ReservationCheckedIn)
	return err
}

func (r *Reconciler) runOnce(ctx context.Context) {
	start := time.Now()
	res, err := r.ReconcileAll(ctx)
	if err != nil {
		r.log.WithError(err).Error("reconcile sweep failed")
		return
	}
	entry := r.log.WithFields(logrus.Fields{
		"checked_in":  res.CheckedIn,
		"checked_out": res.CheckedOut,
		"failed":      res.Failed,
		"duration":    time.Since(start),
	})
	if res.CheckedIn+res.CheckedOut+res.Failed > 0 {
		entry.Info("reconcile sweep completed")
	} else {
		entry.Debug("reconcile sweep completed")
	}
}

// Start sweeps once immediately and then every interval until ctx is done
// or the returned channel is closed.
func (r *Reconciler) Start(ctx context.Context) chan struct{} {
	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.runOnce(ctx)
		for {
			select {
			case <-ticker.C:
				r.runOnce(ctx)
			case <-stopCh:
				r.log.Info("reconciler stopped")
				return
			case <-ctx.Done():
				r.log.Info("reconciler stopped (context done)")
				return
			}
		}
	}()

	r.log.WithField("interval", r.interval).Info("reconciler started")
	return stopCh
}
