package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"curbside/internal/alerts/service/mocks"
	"curbside/internal/schedule"
	"curbside/internal/subscriber/models"
	"curbside/internal/subscriber/store"
)

type DispatchSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	source  *mocks.MockScheduleSource
	sender  *mocks.MockMessageSender
	store   *store.InMemoryStore
	service *Service
}

func (s *DispatchSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.source = mocks.NewMockScheduleSource(s.ctrl)
	s.sender = mocks.NewMockMessageSender(s.ctrl)
	s.store = store.New()
	s.service = NewService(
		s.store,
		s.source,
		s.sender,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithClock(func() time.Time { return testNow }),
	)
}

func (s *DispatchSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDispatchSuite(t *testing.T) {
	suite.Run(t, new(DispatchSuite))
}

func (s *DispatchSuite) seed(phone, faddr string, status models.Status, verified bool) {
	addr, err := models.NewAddress("1403", "E", "POTTER", "AV", faddr)
	s.Require().NoError(err)
	sub := models.NewSubscriber(phone, addr, models.Consent{Checked: true, SubmittedAt: testNow}, testNow)
	sub.Status = status
	sub.Verified = verified
	s.Require().NoError(s.store.Save(context.Background(), sub))
}

func (s *DispatchSuite) TestRemindsMatchingSubscribers() {
	s.seed("14145550001", "1403 E POTTER AV", models.StatusActive, true)

	s.source.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(determinedPayload(), nil)

	var sentText string
	s.sender.EXPECT().Send(gomock.Any(), "14145550001", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, text string) error {
			sentText = text
			return nil
		})

	s.service.RunDailyDispatch(context.Background())

	// Tomorrow is Friday January 2; only garbage matches.
	s.Equal("Reminder: garbage pickup tomorrow (Friday, January 2, 2026). Put carts out tonight.", sentText)
}

func (s *DispatchSuite) TestNoPickupTomorrowMeansNoMessage() {
	s.seed("14145550001", "1403 E POTTER AV", models.StatusActive, true)

	// Both dates resolve, neither falls on tomorrow. No Send is expected.
	s.source.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(&schedule.Payload{
		Success:   true,
		Garbage:   &schedule.Pickup{Date: "FRIDAY JANUARY 9, 2026", IsDetermined: true},
		Recycling: &schedule.Pickup{Date: "MONDAY JANUARY 12, 2026", IsDetermined: true},
	}, nil)

	s.service.RunDailyDispatch(context.Background())
}

func (s *DispatchSuite) TestSkipsUnverifiedAndUnsubscribed() {
	s.seed("14145550001", "100 W MAIN ST", models.StatusPendingConfirm, false)
	s.seed("14145550002", "200 W MAIN ST", models.StatusUnsubscribed, false)

	// Nobody is active and verified, so neither mock sees a call.
	s.service.RunDailyDispatch(context.Background())
}

func (s *DispatchSuite) TestUndeterminedScheduleIsSkipped() {
	s.seed("14145550001", "1403 E POTTER AV", models.StatusActive, true)

	s.source.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(undeterminedPayload(), nil)

	s.service.RunDailyDispatch(context.Background())
}

func (s *DispatchSuite) TestOneFailureDoesNotStopTheBatch() {
	s.seed("14145550001", "100 W MAIN ST", models.StatusActive, true)
	s.seed("14145550002", "1403 E POTTER AV", models.StatusActive, true)

	// One subscriber's lookup fails, the other still gets a reminder.
	s.source.EXPECT().Lookup(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, addr models.Address) (*schedule.Payload, error) {
			if addr.FullAddress == "100 W MAIN ST" {
				return nil, errors.New("feed unreachable")
			}
			return determinedPayload(), nil
		})
	s.sender.EXPECT().Send(gomock.Any(), "14145550002", gomock.Any()).Return(nil)

	s.service.RunDailyDispatch(context.Background())
}

func (s *DispatchSuite) TestDeliveryFailureIsIsolated() {
	s.seed("14145550001", "1403 E POTTER AV", models.StatusActive, true)

	s.source.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(determinedPayload(), nil)
	s.sender.EXPECT().Send(gomock.Any(), "14145550001", gomock.Any()).Return(errors.New("webhook down"))

	// The run completes despite the failed delivery.
	s.service.RunDailyDispatch(context.Background())
}
