// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/streamvault/internal/platform/ctxutil"
	"github.com/taibuivan/streamvault/internal/users/activity"
	"github.com/taibuivan/streamvault/pkg/pagination"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (writer *fakeWriter) WriteMessages(_ context.Context, messages ...kafka.Message) error {
	if writer.err != nil {
		return writer.err
	}
	writer.messages = append(writer.messages, messages...)
	return nil
}

func (writer *fakeWriter) Close() error { return nil }

type fakeRepository struct {
	entries []*activity.Entry
}

func (repository *fakeRepository) Append(_ context.Context, entry *activity.Entry) error {
	repository.entries = append(repository.entries, entry)
	return nil
}

func (repository *fakeRepository) ListByUser(_ context.Context, userID int64, limit, offset int) ([]*activity.Entry, int, error) {
	var owned []*activity.Entry
	for index := len(repository.entries) - 1; index >= 0; index-- {
		if repository.entries[index].UserID == userID {
			owned = append(owned, repository.entries[index])
		}
	}
	if offset >= len(owned) {
		return nil, len(owned), nil
	}
	end := min(offset+limit, len(owned))
	return owned[offset:end], len(owned), nil
}

/*
TestConstructors checks the metadata attached to each audit entry kind.
*/
func TestConstructors(t *testing.T) {
	client := activity.Client{IPAddress: "10.0.0.1", UserAgent: "tv-app/2.1", DeviceInfo: "living-room"}

	success := activity.LoginSucceeded(7, 42, client, fixedNow)
	assert.Equal(t, activity.ActionLogin, success.Action)
	assert.Equal(t, "success", success.Metadata["status"])
	assert.Equal(t, int64(42), success.Metadata["session_id"])
	assert.Equal(t, "living-room", success.Metadata["device_info"])
	assert.Equal(t, "10.0.0.1", success.IPAddress)
	assert.Equal(t, fixedNow, success.CreatedAt)

	failure := activity.LoginFailed(7, 5, true, client, fixedNow)
	assert.Equal(t, activity.ActionLogin, failure.Action)
	assert.Equal(t, "failed", failure.Metadata["status"])
	assert.Equal(t, 5, failure.Metadata["failed_attempts"])
	assert.Equal(t, true, failure.Metadata["account_locked"])

	assert.NotEqual(t, success.ID, failure.ID)
	assert.False(t, success.Equal(failure))
	assert.True(t, success.Equal(success))
}

/*
TestAction_IsValid covers the closed action set.
*/
func TestAction_IsValid(t *testing.T) {
	assert.True(t, activity.ActionContentView.IsValid())
	assert.True(t, activity.ActionPasswordChange.IsValid())
	assert.False(t, activity.Action("DELETE_EVERYTHING").IsValid())
}

/*
TestKafkaPublisher_Publish verifies keying by user and the JSON payload.
*/
func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := activity.NewKafkaPublisherWithWriter(writer)

	entry := activity.Registered(99, activity.Client{}, fixedNow)
	require.NoError(t, publisher.Publish(context.Background(), entry))
	require.Len(t, writer.messages, 1)

	message := writer.messages[0]
	assert.Equal(t, "99", string(message.Key))
	assert.Equal(t, "action", message.Headers[0].Key)
	assert.Equal(t, "REGISTER", string(message.Headers[0].Value))

	var decoded activity.Entry
	require.NoError(t, json.Unmarshal(message.Value, &decoded))
	assert.Equal(t, entry.ID, decoded.ID)
	assert.Equal(t, int64(99), decoded.UserID)

	// Empty batches never reach the broker
	require.NoError(t, publisher.Publish(context.Background()))
	assert.Len(t, writer.messages, 1)
}

/*
TestNewKafkaPublisher_RequiresBrokers rejects incomplete configuration.
*/
func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := activity.NewKafkaPublisher(nil, "users.activity")
	assert.Error(t, err)

	_, err = activity.NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}

/*
TestMirror_Publish forwards non-nil entries and swallows broker failures.
*/
func TestMirror_Publish(t *testing.T) {
	writer := &fakeWriter{}
	mirror := activity.NewMirror(activity.NewKafkaPublisherWithWriter(writer))

	mirror.Publish(context.Background(), nil, activity.Registered(1, activity.Client{}, fixedNow), nil)
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "1", string(writer.messages[0].Key))

	mirror.Publish(context.Background(), nil)
	assert.Len(t, writer.messages, 1)

	// Broker failures are logged on the request logger, never returned
	var logs bytes.Buffer
	ctx := ctxutil.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&logs, nil)))
	writer.err = errors.New("broker down")
	mirror.Publish(ctx, activity.Registered(2, activity.Client{}, fixedNow))
	assert.Contains(t, logs.String(), `"msg":"activity_publish_failed"`)
	assert.Contains(t, logs.String(), "broker down")

	assert.NotPanics(t, func() {
		activity.NewMirror(nil).Publish(context.Background(), activity.Registered(3, activity.Client{}, fixedNow))
	})
}

/*
TestService_History pages through a user's entries newest first.
*/
func TestService_History(t *testing.T) {
	repository := &fakeRepository{}
	for index := range 5 {
		at := fixedNow.Add(time.Duration(index) * time.Minute)
		require.NoError(t, repository.Append(context.Background(), activity.Registered(1, activity.Client{}, at)))
	}
	require.NoError(t, repository.Append(context.Background(), activity.Registered(2, activity.Client{}, fixedNow)))

	service := activity.NewService(repository)

	entries, meta, err := service.History(context.Background(), 1, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, fixedNow.Add(4*time.Minute), entries[0].CreatedAt)
	assert.Equal(t, 5, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	entries, _, err = service.History(context.Background(), 1, pagination.Params{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
