package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"curbside/internal/alerts/message"
	"curbside/internal/subscriber/models"
)

// dispatchConcurrency bounds how many subscribers are evaluated at once
// during a daily run.
const dispatchConcurrency = 4

// RunDailyDispatch evaluates every active, verified subscriber against
// tomorrow and sends a reminder to those with a matching pickup. Each
// subscriber is an independent failure domain: a feed, parse, or delivery
// failure is logged and the rest of the batch continues.
func (s *Service) RunDailyDispatch(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.DispatchRuns.Inc()
	}

	subs, err := s.store.ListActiveVerified(ctx)
	if err != nil {
		s.logger.Error("dispatch could not list subscribers", "error", err)
		return
	}
	if s.metrics != nil {
		s.metrics.ActiveSubscribers.Set(float64(len(subs)))
	}

	target := s.tomorrow()
	s.logger.Info("daily dispatch starting",
		"subscribers", len(subs),
		"target_day", target.Format("2006-01-02"),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dispatchConcurrency)
	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			s.dispatchOne(ctx, sub)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("daily dispatch finished", "subscribers", len(subs))
}

// dispatchOne handles a single subscriber's reminder decision. All failures
// stay inside this unit.
func (s *Service) dispatchOne(ctx context.Context, sub *models.Subscriber) {
	payload, err := s.lookup(ctx, sub.Address)
	if err != nil {
		s.dispatchFailure(sub, "schedule lookup failed", err)
		return
	}

	res := s.resolver.Resolve(payload, s.tomorrow())
	if !res.Determined {
		s.logger.Warn("schedule undetermined during dispatch",
			"subscriber_id", sub.ID,
			"address", sub.Address.FullAddress,
		)
		return
	}

	matching := res.Matching()
	if len(matching) == 0 {
		return
	}

	text := message.Reminder(matching, s.tomorrow())
	if err := s.sender.Send(ctx, sub.Phone, text); err != nil {
		s.dispatchFailure(sub, "reminder delivery failed", err)
		return
	}

	if s.metrics != nil {
		for _, svc := range matching {
			s.metrics.RemindersSent.WithLabelValues(string(svc)).Inc()
		}
	}
	s.logger.Info("reminder sent",
		"subscriber_id", sub.ID,
		"services", len(matching),
	)
}

func (s *Service) dispatchFailure(sub *models.Subscriber, msg string, err error) {
	if s.metrics != nil {
		s.metrics.DispatchFailures.Inc()
	}
	s.logger.Error(msg,
		"subscriber_id", sub.ID,
		"error", err,
	)
}
