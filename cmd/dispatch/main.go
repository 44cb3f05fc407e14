// Command dispatch sends a one-off pickup reminder for a single address.
// Useful as a smoke test of the feed, resolver, and delivery path without
// going through signup.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"curbside/internal/alerts/message"
	"curbside/internal/platform/config"
	"curbside/internal/platform/logger"
	"curbside/internal/schedule"
	"curbside/internal/sms"
	"curbside/internal/subscriber/models"
)

func main() {
	var (
		phone       = flag.String("phone", "", "phone to send the reminder to")
		houseNumber = flag.String("laddr", "", "house number")
		direction   = flag.String("sdir", "", "street direction")
		streetName  = flag.String("sname", "", "street name")
		streetType  = flag.String("stype", "", "street type")
		fullAddress = flag.String("faddr", "", "full formatted address")
	)
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New()

	address, err := models.NewAddress(*houseNumber, *direction, *streetName, *streetType, *fullAddress)
	if err != nil {
		log.Error("invalid address", "error", err)
		os.Exit(1)
	}

	normalized := models.NormalizePhone(*phone)
	if normalized == "" {
		log.Error("invalid phone", "phone", *phone)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	source := schedule.NewHTTPSource(cfg.CityFeedURL, cfg.LookupTimeout, log)
	payload, err := source.Lookup(ctx, address)
	if err != nil {
		log.Error("schedule lookup failed", "error", err)
		os.Exit(1)
	}
	if !payload.Determined() {
		log.Error("schedule undetermined for address", "address", address.FullAddress)
		os.Exit(1)
	}

	loc := cfg.Location()
	now := time.Now().In(loc)
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, loc)

	resolver := schedule.NewResolver(log)
	res := resolver.Resolve(payload, tomorrow)
	matching := res.Matching()
	if len(matching) == 0 {
		log.Info("no pickup tomorrow for this address")
		return
	}

	text := message.Reminder(matching, tomorrow)

	var sender interface {
		Send(ctx context.Context, phone, text string) error
	}
	if cfg.SMSWebhookURL != "" {
		sender = sms.NewWebhookSender(cfg.SMSWebhookURL, cfg.SendTimeout, log)
	} else {
		sender = sms.NewLogSender(log)
	}

	if err := sender.Send(ctx, normalized, text); err != nil {
		log.Error("reminder delivery failed", "error", err)
		os.Exit(1)
	}
	log.Info("reminder sent", "services", len(matching))
}
