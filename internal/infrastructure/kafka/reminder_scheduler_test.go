package kafka

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"habitio-service/internal/config"
	"habitio-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func strptr(s string) *string { return &s }

func TestScheduleNotifications_DisabledPipeline(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)

	scheduler := NewReminderScheduler(&config.KafkaConfig{Enabled: false}, log)

	habit := &entity.Habit{
		ID:           uuid.New(),
		Name:         "Water",
		Days:         []string{"Mon", "Wed"},
		ReminderOn:   true,
		ReminderTime: strptr("08:00"),
		ReminderText: strptr("drink up"),
		AlertIDs:     []string{uuid.NewString()},
	}

	granted, err := scheduler.RequestPermission(context.Background())
	if err != nil {
		t.Fatalf("RequestPermission failed: %v", err)
	}
	if granted {
		t.Errorf("permission granted with the pipeline disabled")
	}

	ids, err := scheduler.ScheduleNotifications(context.Background(), habit)
	if err != nil {
		t.Fatalf("ScheduleNotifications failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("alert ids = %v, want none without a pipeline", ids)
	}
	if !strings.Contains(buf.String(), "dropping events") {
		t.Errorf("dropped events not logged: %s", buf.String())
	}

	if err := scheduler.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestScheduleNotifications_NothingToCancelOrSchedule(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	scheduler := NewReminderScheduler(&config.KafkaConfig{Enabled: false}, log)

	ids, err := scheduler.ScheduleNotifications(context.Background(), &entity.Habit{
		ID:   uuid.New(),
		Name: "Water",
		Days: []string{"Mon"},
	})
	if err != nil {
		t.Fatalf("ScheduleNotifications failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("alert ids = %v, want none for a habit without a reminder", ids)
	}
}
