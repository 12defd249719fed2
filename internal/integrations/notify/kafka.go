package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
)

// Logger определяет интерфейс для логирования
type Logger interface {
	Info(format string, v ...any)
	Error(format string, v ...any)
}

// AppointmentEvent представляет событие записи для Kafka
type AppointmentEvent struct {
	EventType     string    `json:"event_type"`
	AppointmentID int64     `json:"appointment_id"`
	StoreID       int64     `json:"store_id"`
	ServiceID     int64     `json:"service_id"`
	Status        string    `json:"status"`
	StartsAt      time.Time `json:"starts_at"`
	ClientEmail   string    `json:"client_email,omitempty"`
	ClientPhone   string    `json:"client_phone,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// KafkaNotifier публикует события записей в один топик Kafka
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	logger   Logger
}

// NewKafkaNotifier создает продюсер и подключается к брокерам
func NewKafkaNotifier(brokers []string, topic string, logger Logger) (*KafkaNotifier, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_3_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("notify: failed to create kafka producer: %w", err)
	}

	logger.Info("[KafkaNotifier] Producer initialized, brokers: %v, topic: %s", brokers, topic)

	return &KafkaNotifier{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// Publish отправляет событие в Kafka. Ключ сообщения - ID записи, чтобы
// все события одной записи попадали в одну партицию и сохраняли порядок.
func (n *KafkaNotifier) Publish(_ context.Context, event *AppointmentEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.AppointmentID, 10)),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event_type"),
				Value: []byte(event.EventType),
			},
		},
		Timestamp: time.Now(),
	}

	partition, offset, err := n.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("notify: failed to publish event %s: %w", event.EventType, err)
	}

	n.logger.Info("[KafkaNotifier] Published %s for appointment %d: partition=%d offset=%d",
		event.EventType, event.AppointmentID, partition, offset)

	return nil
}

// Close закрывает продюсер
func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}
