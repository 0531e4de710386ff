package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"habitio-service/internal/config"
	"habitio-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Event types understood by the reminder delivery service.
const (
	eventReminderScheduled = "reminder.scheduled"
	eventReminderCancelled = "reminder.cancelled"
)

// reminderEvent is the wire payload for reminder schedule/cancel events.
type reminderEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	AlertID   string    `json:"alert_id"`
	HabitID   string    `json:"habit_id,omitempty"`
	HabitName string    `json:"habit_name,omitempty"`
	Weekday   string    `json:"weekday,omitempty"`
	Time      string    `json:"time,omitempty"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReminderScheduler implements the notification scheduler boundary by
// publishing reminder events to Kafka. The delivery service owns the actual
// alerts; this side only hands over schedules and keeps the identifiers.
type ReminderScheduler struct {
	writer  *kafka.Writer
	enabled bool
	log     *logrus.Logger
}

// NewReminderScheduler creates a new Kafka-backed reminder scheduler
func NewReminderScheduler(cfg *config.KafkaConfig, log *logrus.Logger) *ReminderScheduler {
	var writer *kafka.Writer
	if cfg.Enabled {
		writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchSize:    10,
			BatchTimeout: 10 * time.Millisecond,
		}
	}

	return &ReminderScheduler{
		writer:  writer,
		enabled: cfg.Enabled,
		log:     log,
	}
}

// RequestPermission reports whether reminders can be registered at all.
// Authorization lives with the delivery side; here the gate is whether the
// reminder pipeline is configured.
func (s *ReminderScheduler) RequestPermission(ctx context.Context) (bool, error) {
	return s.enabled, nil
}

func (s *ReminderScheduler) ScheduleNotifications(ctx context.Context, habit *entity.Habit) ([]string, error) {
	var messages []kafka.Message

	// Cancel whatever is currently scheduled before registering anew.
	for _, alertID := range habit.AlertIDs {
		msg, err := marshalEvent(&reminderEvent{
			EventID:   uuid.NewString(),
			EventType: eventReminderCancelled,
			AlertID:   alertID,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	alertIDs := []string{}
	if !habit.Archived && habit.ReminderConfigured() {
		for _, weekday := range entity.Weekdays {
			if !habit.ScheduledOn(weekday) {
				continue
			}
			alertID := uuid.NewString()
			msg, err := marshalEvent(&reminderEvent{
				EventID:   uuid.NewString(),
				EventType: eventReminderScheduled,
				AlertID:   alertID,
				HabitID:   habit.ID.String(),
				HabitName: habit.Name,
				Weekday:   weekday,
				Time:      *habit.ReminderTime,
				Text:      *habit.ReminderText,
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				return nil, err
			}
			messages = append(messages, msg)
			alertIDs = append(alertIDs, alertID)
		}
	}

	if len(messages) == 0 {
		return alertIDs, nil
	}

	if !s.enabled {
		// Nothing to deliver to; keep the habit without alerts.
		s.log.WithFields(logrus.Fields{
			"habit_id": habit.ID,
			"events":   len(messages),
		}).Debug("reminder pipeline disabled, dropping events")
		return []string{}, nil
	}

	if err := s.writer.WriteMessages(ctx, messages...); err != nil {
		return nil, fmt.Errorf("failed to publish reminder events: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"habit_id": habit.ID,
		"alerts":   len(alertIDs),
	}).Info("reminder schedule published")

	return alertIDs, nil
}

// Close closes the underlying Kafka writer
func (s *ReminderScheduler) Close() error {
	if s.writer != nil {
		return s.writer.Close()
	}
	return nil
}

func marshalEvent(event *reminderEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal reminder event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.AlertID),
		Value: data,
		Time:  time.Now(),
	}, nil
}
