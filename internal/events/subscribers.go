package events

import (
	"encoding/json"

	"shareit/internal/metrics"

	"github.com/rs/zerolog"
)

// SubscribeMetricsHandlers вешает на шину учёт prometheus-счётчиков и
// аудит-лог доменных событий.
func SubscribeMetricsHandlers(bus *EventBus, logger *zerolog.Logger) {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "events").Logger()
	}

	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		var p BookingEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		metrics.IncBookingCreated()
		log.Info().
			Int64("booking_id", p.BookingID).
			Int64("item_id", p.ItemID).
			Int64("booker_id", p.BookerID).
			Msg("booking created")
		return nil
	})

	decided := func(event *Event) error {
		var p BookingEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		metrics.IncBookingDecided(p.Status)
		log.Info().
			Int64("booking_id", p.BookingID).
			Str("status", p.Status).
			Msg("booking decided")
		return nil
	}
	bus.Subscribe(EventBookingApproved, decided)
	bus.Subscribe(EventBookingRejected, decided)

	bus.Subscribe(EventCommentAdded, func(event *Event) error {
		var p CommentEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		metrics.IncCommentAdded()
		log.Info().
			Int64("comment_id", p.CommentID).
			Int64("item_id", p.ItemID).
			Int64("author_id", p.AuthorID).
			Msg("comment added")
		return nil
	})
}
