package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"curbside/internal/alerts/message"
	"curbside/internal/platform/metrics"
	"curbside/internal/schedule"
	"curbside/internal/sentinel"
	"curbside/internal/subscriber/lifecycle"
	"curbside/internal/subscriber/models"
	dErrors "curbside/pkg/domain-errors"
)

const defaultLookupTimeout = 5 * time.Second

// Service orchestrates the subscriber lifecycle: signup, inbound keyword
// handling, and the daily reminder dispatch. Each read-decide-write sequence
// is serialized per phone so two in-flight commands for the same subscriber
// cannot interleave.
type Service struct {
	store         SubscriberStore
	source        ScheduleSource
	resolver      *schedule.Resolver
	sender        MessageSender
	metrics       *metrics.Metrics
	logger        *slog.Logger
	loc           *time.Location
	lookupTimeout time.Duration
	now           func() time.Time
	locks         keyedMutex
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocation sets the reference timezone every "tomorrow" is computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.loc = loc
	}
}

// WithLookupTimeout bounds every schedule feed call made by the service.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the core orchestrator.
func NewService(store SubscriberStore, source ScheduleSource, sender MessageSender, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:         store,
		source:        source,
		resolver:      schedule.NewResolver(logger),
		sender:        sender,
		logger:        logger,
		loc:           time.UTC,
		lookupTimeout: defaultLookupTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// SignupOutcome classifies what a signup request resulted in.
type SignupOutcome string

const (
	OutcomeCreated       SignupOutcome = "created"
	OutcomeAlreadyActive SignupOutcome = "already_active"
	OutcomeUndetermined  SignupOutcome = "address_undetermined"
	OutcomeMissingFields SignupOutcome = "missing_fields"
)

// SignupParams carries one signup submission into the service.
type SignupParams struct {
	Phone            string
	HouseNumber      string
	StreetDirection  string
	StreetName       string
	StreetType       string
	FullAddress      string
	ConsentChecked   bool
	ConsentSourceURL string
}

// SignupResult is the outcome of a signup submission.
type SignupResult struct {
	Outcome      SignupOutcome
	SubscriberID string
	Reason       string
}

// Signup validates the address against the schedule feed, creates or resets
// the subscriber record for the phone, and sends the opt-in confirmation
// request. Input validation failures reject before any state mutation; a
// transient feed failure is returned as an error and mutates nothing.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*SignupResult, error) {
	phone := models.NormalizePhone(params.Phone)
	if phone == "" {
		return &SignupResult{Outcome: OutcomeMissingFields, Reason: "phone is required"}, nil
	}
	if !params.ConsentChecked {
		return &SignupResult{Outcome: OutcomeMissingFields, Reason: "consent is required"}, nil
	}

	address, err := models.NewAddress(params.HouseNumber, params.StreetDirection, params.StreetName, params.StreetType, params.FullAddress)
	if err != nil {
		return &SignupResult{Outcome: OutcomeMissingFields, Reason: err.Error()}, nil
	}

	unlock := s.locks.lock(phone)
	defer unlock()

	existing, err := s.store.FindByPhone(ctx, phone)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to read subscriber", err)
	}

	if existing != nil && existing.IsActive() {
		s.bestEffortSend(ctx, existing.Phone, message.AlreadySubscribed(existing.Address.FullAddress))
		s.countSignup(OutcomeAlreadyActive)
		return &SignupResult{Outcome: OutcomeAlreadyActive, SubscriberID: existing.ID}, nil
	}

	payload, err := s.lookup(ctx, address)
	if err != nil {
		s.logger.Error("signup address validation failed",
			"address", address.FullAddress,
			"error", err,
		)
		return nil, dErrors.Wrap(dErrors.CodeTimeout, "could not reach the schedule feed", err)
	}
	if !payload.Determined() {
		s.countSignup(OutcomeUndetermined)
		return &SignupResult{
			Outcome: OutcomeUndetermined,
			Reason:  "could not determine a collection schedule for that address",
		}, nil
	}

	now := s.now()
	consent := models.Consent{
		Checked:     params.ConsentChecked,
		SourceURL:   params.ConsentSourceURL,
		SubmittedAt: now,
	}

	var sub *models.Subscriber
	if existing != nil {
		// Re-signup from pending or unsubscribed restarts the opt-in flow on
		// the same record; the phone never gets a second one.
		existing.Address = address
		existing.Status = models.StatusPendingConfirm
		existing.Verified = false
		existing.Consent = consent
		if err := s.store.Update(ctx, existing); err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update subscriber", err)
		}
		sub = existing
	} else {
		sub = models.NewSubscriber(phone, address, consent, now)
		if err := s.store.Save(ctx, sub); err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save subscriber", err)
		}
	}

	s.bestEffortSend(ctx, sub.Phone, message.ConfirmationRequest(sub.Address.FullAddress))
	s.countSignup(OutcomeCreated)
	s.logger.Info("signup accepted",
		"subscriber_id", sub.ID,
		"address", sub.Address.FullAddress,
	)
	return &SignupResult{Outcome: OutcomeCreated, SubscriberID: sub.ID}, nil
}

// Inbound handles one inbound message. It returns the reply text and whether
// a reply should be sent at all: unknown numbers and unparseable senders are
// discarded silently. Any state change is persisted before the reply is
// composed, so the reply always reflects committed state.
func (s *Service) Inbound(ctx context.Context, fromRaw, bodyRaw string) (string, bool) {
	phone := models.NormalizePhone(fromRaw)
	if phone == "" {
		s.logger.Warn("inbound message with unusable sender", "from", fromRaw)
		return "", false
	}

	unlock := s.locks.lock(phone)
	defer unlock()

	sub, err := s.store.FindByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.Error("inbound subscriber lookup failed", "error", err)
		}
		// The system never replies to unknown numbers.
		return "", false
	}

	cmd := lifecycle.Classify(bodyRaw)
	s.countCommand(cmd)

	out := lifecycle.Transition(sub.Status, cmd)
	if out.Changed {
		s.apply(sub, out)
		if err := s.store.Update(ctx, sub); err != nil {
			s.logger.Error("failed to persist transition",
				"subscriber_id", sub.ID,
				"command", string(cmd),
				"error", err,
			)
			return message.LookupError(), true
		}
		s.logger.Info("subscriber transition",
			"subscriber_id", sub.ID,
			"command", string(cmd),
			"status", string(sub.Status),
		)
	}

	reply := s.compose(ctx, sub, out.Reply)
	s.countReply(out.Reply)
	s.bestEffortSend(ctx, sub.Phone, reply)
	return reply, true
}

// apply mutates the subscriber per the transition's effect flags.
func (s *Service) apply(sub *models.Subscriber, out lifecycle.Outcome) {
	now := s.now()
	sub.Status = out.Next
	sub.Verified = out.Verified
	if out.StampConfirmed {
		confirmed := now
		sub.Consent.ConfirmedAt = &confirmed
	}
	if out.ClearConfirmed {
		sub.Consent.ConfirmedAt = nil
	}
	if out.StampSubmitted {
		sub.Consent.SubmittedAt = now
	}
}

// compose renders the reply for a scenario. Scenarios that need the schedule
// feed degrade to the generic lookup-error text on any failure instead of
// dropping the reply.
func (s *Service) compose(ctx context.Context, sub *models.Subscriber, kind lifecycle.ReplyKind) string {
	switch kind {
	case lifecycle.ReplyConfirmationRequest:
		return message.ConfirmationRequest(sub.Address.FullAddress)
	case lifecycle.ReplyWelcome:
		return message.Welcome(sub.Address.FullAddress, s.trySummary(ctx, sub))
	case lifecycle.ReplyAlreadySubscribed:
		return message.AlreadySubscribed(sub.Address.FullAddress)
	case lifecycle.ReplyStatus:
		return s.composeStatus(ctx, sub)
	case lifecycle.ReplyStopAck:
		return message.StopAck()
	case lifecycle.ReplyHelp:
		return message.Help()
	case lifecycle.ReplyPendingReminder:
		return message.PendingReminder(sub.Address.FullAddress)
	case lifecycle.ReplyUnsubscribedNotice:
		return message.UnsubscribedNotice()
	default:
		return message.Help()
	}
}

// composeStatus is the schedule lookup reply path for active subscribers.
func (s *Service) composeStatus(ctx context.Context, sub *models.Subscriber) string {
	payload, err := s.lookup(ctx, sub.Address)
	if err != nil {
		s.logger.Error("status lookup failed",
			"subscriber_id", sub.ID,
			"error", err,
		)
		return message.LookupError()
	}

	res := s.resolver.Resolve(payload, s.tomorrow())
	if !res.Determined {
		return message.StatusUndetermined(sub.Address.FullAddress)
	}
	summary := message.ScheduleSummary(res)
	if summary == "" {
		return message.StatusUndetermined(sub.Address.FullAddress)
	}
	return message.StatusWithDates(sub.Address.FullAddress, summary)
}

// trySummary resolves the next pickup dates for the welcome text; failures
// just omit the summary since the opt-in itself already succeeded.
func (s *Service) trySummary(ctx context.Context, sub *models.Subscriber) string {
	payload, err := s.lookup(ctx, sub.Address)
	if err != nil {
		s.logger.Warn("welcome summary lookup failed",
			"subscriber_id", sub.ID,
			"error", err,
		)
		return ""
	}
	if !payload.Determined() {
		return ""
	}
	return message.ScheduleSummary(s.resolver.Resolve(payload, s.tomorrow()))
}

// lookup calls the schedule source under the service's bounded timeout.
func (s *Service) lookup(ctx context.Context, address models.Address) (*schedule.Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	start := time.Now()
	payload, err := s.source.Lookup(ctx, address)
	if s.metrics != nil {
		s.metrics.LookupLatency.Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.LookupFailures.Inc()
		}
	}
	return payload, err
}

// tomorrow is the target day every reminder decision is evaluated against:
// current day plus one, in the service's reference timezone.
func (s *Service) tomorrow() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, s.loc)
}

// bestEffortSend delivers a text and logs failures. The caller's state change
// has already been committed; a failed delivery must not unwind it.
func (s *Service) bestEffortSend(ctx context.Context, phone, text string) {
	if err := s.sender.Send(ctx, phone, text); err != nil {
		if s.metrics != nil {
			s.metrics.SendFailures.Inc()
		}
		s.logger.Error("sms delivery failed",
			"phone", phone,
			"error", err,
		)
	}
}

func (s *Service) countSignup(outcome SignupOutcome) {
	if s.metrics != nil {
		s.metrics.SignupsTotal.WithLabelValues(string(outcome)).Inc()
	}
}

func (s *Service) countCommand(cmd lifecycle.Command) {
	if s.metrics != nil {
		s.metrics.InboundCommands.WithLabelValues(string(cmd)).Inc()
	}
}

func (s *Service) countReply(kind lifecycle.ReplyKind) {
	if s.metrics != nil {
		s.metrics.RepliesTotal.WithLabelValues(string(kind)).Inc()
	}
}
