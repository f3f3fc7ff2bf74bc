package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStreamAdder struct {
	mock.Mock
}

func (m *MockStreamAdder) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	args := m.Called(ctx, a)
	return redis.NewStringResult(args.String(0), args.Error(1))
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendMessage(ctx context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageOutput), args.Error(1)
}

func sampleMessage() Message {
	return Message{
		ID:          "6f1c1f5e-3c1e-4a8f-9d55-0d5f3f7f9a10",
		Kind:        "created",
		BookingCode: "EF250520001",
		LocationID:  2,
		Payload:     json.RawMessage(`{"kind":"created","booking":{"booking_id":"EF250520001","pricing":{"total":3000}}}`),
	}
}

func TestRedisStreamSink(t *testing.T) {
	client := new(MockStreamAdder)
	client.On("XAdd", mock.Anything, mock.MatchedBy(func(a *redis.XAddArgs) bool {
		values := a.Values.(map[string]any)
		return a.Stream == "booking-events" && a.Approx &&
			values["booking_id"] == "EF250520001" && values["kind"] == "created"
	})).Return("1716200000000-0", nil).Once()

	require.NoError(t, NewRedisStreamSink(client, "booking-events").Publish(context.Background(), sampleMessage()))
	client.AssertExpectations(t)
}

func TestRedisStreamSink_Error(t *testing.T) {
	client := new(MockStreamAdder)
	client.On("XAdd", mock.Anything, mock.Anything).Return("", errors.New("READONLY"))

	err := NewRedisStreamSink(client, "booking-events").Publish(context.Background(), sampleMessage())
	assert.ErrorContains(t, err, "READONLY")
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient("not a url")
	assert.Error(t, err)
}

func TestSQSSink_StandardQueue(t *testing.T) {
	client := new(MockSender)
	client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		var m Message
		return json.Unmarshal([]byte(*in.MessageBody), &m) == nil &&
			m.BookingCode == "EF250520001" &&
			*in.MessageAttributes["kind"].StringValue == "created" &&
			in.MessageGroupId == nil
	})).Return(&sqs.SendMessageOutput{}, nil).Once()

	sink := NewSQSSink(client, "https://sqs.ap-south-1.amazonaws.com/123/booking-events")
	require.NoError(t, sink.Publish(context.Background(), sampleMessage()))
	client.AssertExpectations(t)
}

func TestSQSSink_FifoQueue(t *testing.T) {
	client := new(MockSender)
	client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		return in.MessageGroupId != nil && *in.MessageGroupId == "EF250520001" &&
			in.MessageDeduplicationId != nil && *in.MessageDeduplicationId == sampleMessage().ID
	})).Return(&sqs.SendMessageOutput{}, nil).Once()

	sink := NewSQSSink(client, "https://sqs.ap-south-1.amazonaws.com/123/booking-events.fifo")
	require.NoError(t, sink.Publish(context.Background(), sampleMessage()))
	client.AssertExpectations(t)
}

func TestLogSink(t *testing.T) {
	assert.NoError(t, LogSink{}.Publish(context.Background(), sampleMessage()))

	bad := sampleMessage()
	bad.Payload = json.RawMessage(`{"kind":`)
	assert.Error(t, LogSink{}.Publish(context.Background(), bad))
}

func TestMultiSink_JoinsErrors(t *testing.T) {
	ok := new(MockSink)
	ok.On("Publish", mock.Anything, mock.Anything).Return(nil)
	boom := errors.New("boom")
	failing := new(MockSink)
	failing.On("Publish", mock.Anything, mock.Anything).Return(boom)

	err := MultiSink{failing, ok}.Publish(context.Background(), sampleMessage())
	assert.ErrorIs(t, err, boom)
	ok.AssertNumberOfCalls(t, "Publish", 1)

	assert.NoError(t, MultiSink{ok}.Publish(context.Background(), sampleMessage()))
}
