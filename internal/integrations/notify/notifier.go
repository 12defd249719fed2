package notify

import "context"

// Оповещения о жизненном цикле записей. Консьюмеры (email, SMS, пуши)
// живут в отдельных сервисах и читают события из Kafka.
const (
	EventAppointmentCreated     = "appointment.created"
	EventAppointmentConfirmed   = "appointment.confirmed"
	EventAppointmentCancelled   = "appointment.cancelled"
	EventAppointmentCompleted   = "appointment.completed"
	EventAppointmentNoShow      = "appointment.no_show"
	EventAppointmentRescheduled = "appointment.rescheduled"
)

// Notifier определяет интерфейс для публикации событий записей
type Notifier interface {
	Publish(ctx context.Context, event *AppointmentEvent) error
	Close() error
}

// NoopNotifier заглушка, используется когда уведомления выключены в конфиге
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) Publish(_ context.Context, _ *AppointmentEvent) error {
	return nil
}

func (n *NoopNotifier) Close() error {
	return nil
}
