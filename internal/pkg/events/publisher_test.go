package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_RunCompleted(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisher(w)

	event := payroll.RunCompletedEvent{
		EventType:      payroll.EventRunCompleted,
		OrganizationID: "org-1",
		Month:          3,
		Year:           2026,
		RecordCount:    4,
		SkippedCount:   1,
		OccurredAt:     time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishRunCompleted(context.Background(), event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "org-1", string(msg.Key))
	assert.Equal(t, []kafka.Header{
		{Key: HeaderEventType, Value: []byte(payroll.EventRunCompleted)},
		{Key: HeaderOrganizationID, Value: []byte("org-1")},
	}, msg.Headers)

	var decoded payroll.RunCompletedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_PropagatesWriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := NewKafkaPublisher(w)

	err := p.PublishFinalized(context.Background(), payroll.FinalizedEvent{EventType: payroll.EventFinalized, OrganizationID: "org-1"})
	assert.EqualError(t, err, "leader not available")
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher()
	assert.NoError(t, p.PublishRunCompleted(context.Background(), payroll.RunCompletedEvent{}))
	assert.NoError(t, p.PublishFinalized(context.Background(), payroll.FinalizedEvent{}))
	assert.NoError(t, p.Close())
}
