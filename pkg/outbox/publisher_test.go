package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/davidhuanca/mayorista-backend/pkg/config"
	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	"github.com/davidhuanca/mayorista-backend/pkg/outbox/payloads"
)

type fakeTopic struct {
	messages []fakeMessage
	err      error
}

type fakeMessage struct {
	topic      string
	data       []byte
	attributes map[string]string
}

func (f *fakeTopic) PublishToTopic(_ context.Context, topic string, data []byte, attributes map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.messages = append(f.messages, fakeMessage{topic: topic, data: data, attributes: attributes})
	return "msg-1", nil
}

func newPublisherDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:outbox_pub?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.OutboxEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM outbox_events")
	})
	return conn
}

func seedEvent(t *testing.T, conn *gorm.DB, repo *Repository, aggregateID int64) {
	t.Helper()
	svc := NewService(repo, nil)
	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   aggregateID,
			Data:          payloads.OrderCreatedEvent{OrderID: aggregateID, BranchID: 1, Total: "10.00"},
			Version:       1,
		})
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
}

func TestDrainOncePublishesAndMarks(t *testing.T) {
	conn := newPublisherDB(t)
	repo := NewRepository(conn)
	seedEvent(t, conn, repo, 1)
	seedEvent(t, conn, repo, 2)

	topic := &fakeTopic{}
	pub, err := NewPublisher(repo, topic, config.OutboxConfig{BatchSize: 10}, "orders", nil)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	published, err := pub.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if published != 2 {
		t.Fatalf("expected 2 published, got %d", published)
	}
	if len(topic.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(topic.messages))
	}
	if topic.messages[0].topic != "orders" {
		t.Fatalf("unexpected topic %q", topic.messages[0].topic)
	}
	if topic.messages[0].attributes["event_type"] != string(enums.EventOrderCreated) {
		t.Fatalf("unexpected attributes %v", topic.messages[0].attributes)
	}

	rows, err := repo.FetchUnpublished(10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no unpublished rows, got %d", len(rows))
	}
}

func TestDrainOnceRecordsFailures(t *testing.T) {
	conn := newPublisherDB(t)
	repo := NewRepository(conn)
	seedEvent(t, conn, repo, 3)

	topic := &fakeTopic{err: errors.New("broker unavailable")}
	pub, err := NewPublisher(repo, topic, config.OutboxConfig{BatchSize: 10, MaxAttempts: 5}, "orders", nil)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	published, err := pub.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if published != 0 {
		t.Fatalf("expected 0 published, got %d", published)
	}

	rows, err := repo.FetchUnpublished(10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected row to stay unpublished, got %d", len(rows))
	}
	if rows[0].AttemptCount != 1 {
		t.Fatalf("expected attempt count 1, got %d", rows[0].AttemptCount)
	}
	if rows[0].LastError == nil || *rows[0].LastError == "" {
		t.Fatal("expected last error to be recorded")
	}
}

func TestDrainOnceParksPoisonedRows(t *testing.T) {
	conn := newPublisherDB(t)
	repo := NewRepository(conn)

	// Row with an invalid event type never becomes publishable.
	row := models.OutboxEvent{
		EventType:     "pedido.unknown",
		AggregateType: enums.AggregateOrder,
		AggregateID:   9,
		Payload:       []byte(`{"version":1,"data":{}}`),
	}
	row.ID = uuid.New()
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("seed poisoned row: %v", err)
	}

	topic := &fakeTopic{}
	pub, err := NewPublisher(repo, topic, config.OutboxConfig{BatchSize: 10}, "orders", nil)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	if _, err := pub.DrainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	rows, err := repo.FetchUnpublished(10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected poisoned row to be parked, got %d", len(rows))
	}
	if len(topic.messages) != 0 {
		t.Fatalf("expected nothing published, got %d", len(topic.messages))
	}

	var stored models.OutboxEvent
	if err := conn.First(&stored, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("reload row: %v", err)
	}
	if stored.ParkedAt == nil {
		t.Fatal("expected parked_at to be stamped")
	}
	if stored.PublishedAt != nil {
		t.Fatal("a parked row must never look delivered")
	}
}
