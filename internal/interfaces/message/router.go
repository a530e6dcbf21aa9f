package message

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"eventhive/internal/entities"
	"eventhive/internal/interfaces/events"
)

type DatalakeRepository interface {
	SaveEvent(ctx context.Context, event entities.DatalakeEvent) error
}

func NewRouter(
	watermillLogger watermill.LoggerAdapter,
	redisClient *redis.Client,
	eventHandler *events.Handler,
	datalakeRepo DatalakeRepository,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	initMiddlewares(watermillLogger, router)

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(
		router,
		events.NewEventProcessorConfig(redisClient, watermillLogger),
	)
	if err != nil {
		return nil, err
	}

	err = eventProcessor.AddHandlers(
		eventHandler.StoreTicketLocationHandler(),
		eventHandler.RegenerateTicketHandler(),
	)
	if err != nil {
		return nil, err
	}

	err = addDatalakeSaver(router, redisClient, watermillLogger, datalakeRepo)
	if err != nil {
		return nil, err
	}

	return router, nil
}

// addDatalakeSaver archives every published event, one handler per topic so
// a slow archive of one stream never stalls another.
func addDatalakeSaver(
	router *message.Router,
	redisClient *redis.Client,
	watermillLogger watermill.LoggerAdapter,
	datalakeRepo DatalakeRepository,
) error {
	archived := []entities.Event{
		entities.BookingConfirmed_v1{},
		entities.TicketGenerated_v1{},
		entities.TicketGenerationFailed_v1{},
	}

	for _, event := range archived {
		eventName := events.Marshaler.Name(event)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        redisClient,
			ConsumerGroup: "svc-eventhive.datalake_saver",
		}, watermillLogger)
		if err != nil {
			return err
		}

		router.AddNoPublisherHandler(
			"datalake_saver."+eventName,
			"events."+eventName,
			subscriber,
			func(msg *message.Message) error {
				type envelope struct {
					Header entities.EventHeader `json:"header"`
				}

				var event envelope
				err := json.Unmarshal(msg.Payload, &event)
				if err != nil {
					return fmt.Errorf("%w: %s", events.ErrJsonUnmarshal, err)
				}

				name := events.Marshaler.NameFromMessage(msg)
				if name == "" {
					return fmt.Errorf("cannot get event name from message")
				}

				id, err := uuid.Parse(event.Header.Id)
				if err != nil {
					return fmt.Errorf("failed to parse event id: %w", err)
				}

				err = datalakeRepo.SaveEvent(
					msg.Context(),
					entities.DatalakeEvent{
						Id:          id,
						PublishedAt: event.Header.PublishedAt,
						EventName:   name,
						Payload:     msg.Payload,
					},
				)
				if err != nil {
					return fmt.Errorf("failed to save event %s: %w", name, err)
				}

				return nil
			},
		)
	}

	return nil
}

func initMiddlewares(watermillLogger watermill.LoggerAdapter, router *message.Router) {
	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(events.CorrelationIDMiddleware)
	router.AddMiddleware(events.LoggingMiddleware)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	// skip marshalling errors before retrying
	router.AddMiddleware(events.SkipMarshallingErrorsMiddleware)
}
