package jetstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/messaging"
	"github.com/feral-file/ff-confirmator/internal/mocks"
	"github.com/feral-file/ff-confirmator/internal/providers/jetstream"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

type testPublisherMocks struct {
	natsJS *mocks.MockNatsJetStream
	nc     *mocks.MockNatsConn
	js     *mocks.MockJetStream
	cfg    jetstream.Config
}

func setupTest(t *testing.T) *testPublisherMocks {
	ctrl := gomock.NewController(t)
	return &testPublisherMocks{
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		nc:     mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
		cfg: jetstream.Config{
			URL:             "nats://localhost:4222",
			StreamName:      "CONFIRMATIONS",
			SubjectPrefix:   "confirmations",
			MaxReconnects:   10,
			ReconnectWait:   time.Second,
			ConnectionName:  "ff-confirmator",
			DuplicateWindow: 10 * time.Minute,
		},
	}
}

func (tm *testPublisherMocks) newPublisher(t *testing.T) messaging.Publisher {
	ctx := context.Background()
	tm.natsJS.EXPECT().Connect(tm.cfg.URL, gomock.Any()).Return(tm.nc, tm.js, nil)
	tm.js.EXPECT().EnsureStream(ctx, natsjs.StreamConfig{
		Name:       "CONFIRMATIONS",
		Subjects:   []string{"confirmations.>"},
		Duplicates: 10 * time.Minute,
	}).Return(nil)

	pub, err := jetstream.NewPublisher(ctx, tm.cfg, tm.natsJS, adapter.NewJSON())
	require.NoError(t, err)
	return pub
}

func TestNewPublisher_ConnectError(t *testing.T) {
	tm := setupTest(t)
	tm.natsJS.EXPECT().Connect(tm.cfg.URL, gomock.Any()).Return(nil, nil, errors.New("no servers"))

	// Act
	_, err := jetstream.NewPublisher(context.Background(), tm.cfg, tm.natsJS, adapter.NewJSON())

	// Assert
	assert.Error(t, err)
}

func TestNewPublisher_StreamErrorClosesConnection(t *testing.T) {
	tm := setupTest(t)
	tm.natsJS.EXPECT().Connect(tm.cfg.URL, gomock.Any()).Return(tm.nc, tm.js, nil)
	tm.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(errors.New("not authorized"))
	tm.nc.EXPECT().Close()

	// Act
	_, err := jetstream.NewPublisher(context.Background(), tm.cfg, tm.natsJS, adapter.NewJSON())

	// Assert
	assert.Error(t, err)
}

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	tm := setupTest(t)
	pub := tm.newPublisher(t)

	notification := domain.NewFinalizedNotification("0xABC", domain.EventContent{
		TransactionHash: "0xtx",
		Event:           "Transfer",
		LogIndex:        4,
	})
	notification.ID = "01JG8XAMPLE1234567890123456"

	tm.js.EXPECT().
		Publish(ctx, "confirmations.0xabc.newEvent", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, subject string, data []byte, opts ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			var decoded domain.Notification
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, notification.ID, decoded.ID)
			assert.Equal(t, domain.NotificationKindNewEvent, decoded.Kind)
			require.NotNil(t, decoded.Finalized)
			assert.Equal(t, uint(4), decoded.Finalized.LogIndex)
			assert.Len(t, opts, 1)
			return &natsjs.PubAck{Stream: "CONFIRMATIONS", Sequence: 1}, nil
		})

	// Act
	err := pub.Publish(ctx, notification)

	// Assert
	assert.NoError(t, err)
}

func TestPublisher_PublishDuplicateAckIsNotAnError(t *testing.T) {
	ctx := context.Background()
	tm := setupTest(t)
	pub := tm.newPublisher(t)

	tm.js.EXPECT().
		Publish(ctx, "confirmations.0xabc.invalidConfirmation", gomock.Any(), gomock.Any()).
		Return(&natsjs.PubAck{Duplicate: true}, nil)

	// Act
	err := pub.Publish(ctx, domain.NewInvalidationNotification("0xabc", domain.Invalidation{TransactionHash: "0xtx"}))

	// Assert
	assert.NoError(t, err)
}

func TestPublisher_PublishError(t *testing.T) {
	ctx := context.Background()
	tm := setupTest(t)
	pub := tm.newPublisher(t)

	errTimeout := errors.New("timeout")
	tm.js.EXPECT().Publish(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errTimeout)

	// Act
	err := pub.Publish(ctx, domain.NewInvalidationNotification("0xabc", domain.Invalidation{TransactionHash: "0xtx"}))

	// Assert
	assert.ErrorIs(t, err, errTimeout)
}

func TestPublisher_Close(t *testing.T) {
	tm := setupTest(t)
	pub := tm.newPublisher(t)

	tm.nc.EXPECT().Close()

	pub.Close()
}
