package verifiersession

import (
	"encoding/json"
	"time"

	"walletdisclosure/pkg/kafka"

	"github.com/IBM/sarama"
)

// SessionEvent is the lifecycle notification published whenever a session
// reaches a terminal Status, the use-case registry's event-export half of
// C10. Payload mirrors the session's own terminal fields rather than the
// full record, since nothing downstream needs the in-flight request/nonce
// state once a session is Done.
type SessionEvent struct {
	Token        string       `json:"session_token"`
	UseCaseID    string       `json:"usecase_id"`
	Status       Status       `json:"status"`
	ResultStatus ResultStatus `json:"result_status,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}

// EventPublisher reports session lifecycle events to whatever downstream
// consumer a deployment wires in. A nil EventPublisher on Client is valid
// and makes publishing a no-op, since event delivery is an observability
// concern the session state machine's own correctness never depends on.
type EventPublisher interface {
	Publish(event SessionEvent) error
}

// KafkaEventPublisher publishes SessionEvent as JSON to a fixed topic,
// grounded on the teacher's MessageSyncProducerClient.PublishMessage, keyed
// by session token so a topic compacted on key retains one record per
// session.
type KafkaEventPublisher struct {
	producer *kafka.MessageSyncProducerClient
	topic    string
}

// NewKafkaEventPublisher builds a KafkaEventPublisher against an existing
// producer client and topic name (model.Kafka.Topics.SessionEvents).
func NewKafkaEventPublisher(producer *kafka.MessageSyncProducerClient, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// Publish marshals the event and sends it via the underlying producer.
func (p *KafkaEventPublisher) Publish(event SessionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.producer.PublishMessage(p.topic, event.Token, payload, []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte("session_lifecycle")},
	})
}

// publishTerminal reports a session's transition into Done, swallowing any
// publish error into a log line: a lost event never blocks or reverts the
// state transition that already committed to the store.
func (c *Client) publishTerminal(session *Session) {
	if c.events == nil {
		return
	}

	event := SessionEvent{
		Token:     session.Token,
		UseCaseID: session.UseCaseID,
		Status:    session.Status,
		Timestamp: session.UpdatedAt,
	}
	if session.Result != nil {
		event.ResultStatus = session.Result.Status
	}

	if err := c.events.Publish(event); err != nil {
		c.log.Info("session event publish failed", "token", session.Token, "error", err.Error())
	}
}
