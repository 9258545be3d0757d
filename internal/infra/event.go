package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/Alturino/ordering/internal/config"
	"github.com/Alturino/ordering/internal/constants"
)

const (
	BROKER_REDIS = "redis"
	BROKER_KAFKA = "kafka"
	BROKER_NONE  = "none"
)

type Publisher interface {
	Publish(c context.Context, topic string, key string, payload []byte) error
	Close() error
}

type Message struct {
	Topic   string
	Key     string
	Payload []byte
}

// Subscriber delivers messages to handle until the context is cancelled.
type Subscriber interface {
	Subscribe(c context.Context, handle func(context.Context, Message) error) error
	Close() error
}

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(c context.Context, topic string, key string, payload []byte) error {
	err := p.client.Publish(c, topic, payload).Err()
	if err != nil {
		return fmt.Errorf("failed publishing to redis topic=%s with error=%w", topic, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error { return nil }

type messageWriter interface {
	WriteMessages(c context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}}
}

func (p *KafkaPublisher) Publish(c context.Context, topic string, key string, payload []byte) error {
	err := p.writer.WriteMessages(c, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed publishing to kafka topic=%s with error=%w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, []byte) error { return nil }

func (NopPublisher) Close() error { return nil }

func NewPublisher(c context.Context, cfg config.Event, cache *redis.Client) (Publisher, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "main NewPublisher").
		Str(constants.KEY_EVENT_BROKER, cfg.Broker).
		Logger()

	switch cfg.Broker {
	case BROKER_REDIS:
		if cache == nil {
			return nil, fmt.Errorf("failed creating redis publisher with error=missing redis client")
		}
		logger.Info().Msg("using redis publisher")
		return NewRedisPublisher(cache), nil
	case BROKER_KAFKA:
		logger.Info().Strs(constants.KEY_EVENT_BROKER, cfg.KafkaBrokers).Msg("using kafka publisher")
		return NewKafkaPublisher(cfg.KafkaBrokers), nil
	case BROKER_NONE, "":
		logger.Info().Msg("event publishing disabled")
		return NopPublisher{}, nil
	default:
		return nil, fmt.Errorf("failed creating publisher with error=unknown broker %q", cfg.Broker)
	}
}

type RedisSubscriber struct {
	client *redis.Client
	topics []string
}

func NewRedisSubscriber(client *redis.Client, topics ...string) *RedisSubscriber {
	return &RedisSubscriber{client: client, topics: topics}
}

func (s *RedisSubscriber) Subscribe(c context.Context, handle func(context.Context, Message) error) error {
	pubsub := s.client.Subscribe(c, s.topics...)
	defer pubsub.Close()

	_, err := pubsub.Receive(c)
	if err != nil {
		return fmt.Errorf("failed subscribing to redis topics=%v with error=%w", s.topics, err)
	}

	logger := zerolog.Ctx(c)
	messages := pubsub.Channel()
	for {
		select {
		case <-c.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			err := handle(c, Message{Topic: msg.Channel, Payload: []byte(msg.Payload)})
			if err != nil {
				logger.Error().Err(err).Str(constants.KEY_EVENT_TOPIC, msg.Channel).Msg(err.Error())
			}
		}
	}
}

func (s *RedisSubscriber) Close() error { return nil }

type messageReader interface {
	FetchMessage(c context.Context) (kafka.Message, error)
	CommitMessages(c context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaSubscriber struct {
	reader messageReader
}

func NewKafkaSubscriber(brokers []string, groupID string, topics ...string) *KafkaSubscriber {
	return &KafkaSubscriber{reader: kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
	})}
}

func (s *KafkaSubscriber) Subscribe(c context.Context, handle func(context.Context, Message) error) error {
	logger := zerolog.Ctx(c)
	for {
		msg, err := s.reader.FetchMessage(c)
		if err != nil {
			if c.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed fetching kafka message with error=%w", err)
		}
		err = handle(c, Message{Topic: msg.Topic, Key: string(msg.Key), Payload: msg.Value})
		if err != nil {
			logger.Error().Err(err).Str(constants.KEY_EVENT_TOPIC, msg.Topic).Msg(err.Error())
		}
		err = s.reader.CommitMessages(c, msg)
		if err != nil && c.Err() == nil {
			return fmt.Errorf("failed committing kafka message with error=%w", err)
		}
	}
}

func (s *KafkaSubscriber) Close() error {
	return s.reader.Close()
}

func NewSubscriber(cfg config.Event, cache *redis.Client, groupID string, topics ...string) (Subscriber, error) {
	switch cfg.Broker {
	case BROKER_REDIS:
		if cache == nil {
			return nil, fmt.Errorf("failed creating redis subscriber with error=missing redis client")
		}
		return NewRedisSubscriber(cache, topics...), nil
	case BROKER_KAFKA:
		return NewKafkaSubscriber(cfg.KafkaBrokers, groupID, topics...), nil
	default:
		return nil, fmt.Errorf("failed creating subscriber with error=unsupported broker %q", cfg.Broker)
	}
}
