package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/samvad-hq/checkout-kit/internal/domain"
	"github.com/samvad-hq/checkout-kit/pkg/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSPublisherSendsEvent(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", typ: TypeSQS, queueURL: "https://sqs.local/q", client: client, log: noopLogger{}}

	evt := NewEvent(domain.Production, OperationProcessOrder, orders.Order{ID: "O-9", Status: "COMPLETED"})
	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, "https://sqs.local/q", aws.ToString(client.input.QueueUrl))
	var body Event
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.input.MessageBody)), &body))
	assert.Equal(t, evt.ID, body.ID)
	assert.Equal(t, "COMPLETED", body.Order.Status)

	attrs := client.input.MessageAttributes
	require.Contains(t, attrs, "order_id")
	assert.Equal(t, "O-9", aws.ToString(attrs["order_id"].StringValue))
	assert.Equal(t, "production", aws.ToString(attrs["environment"].StringValue))
}

func TestSQSPublisherSkipsEmptyAttributes(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", typ: TypeSQS, queueURL: "q", client: client, log: noopLogger{}}

	require.NoError(t, pub.Publish(context.Background(), Event{ID: "e-1"}))
	assert.NotContains(t, client.input.MessageAttributes, "order_id")
	assert.Contains(t, client.input.MessageAttributes, "event_id")
}

func TestSQSPublisherWrapsSendError(t *testing.T) {
	boom := errors.New("throttled")
	pub := &sqsPublisher{id: "queue", typ: TypeSQS, queueURL: "q", client: &fakeSQSClient{err: boom}, log: noopLogger{}}

	assert.ErrorIs(t, pub.Publish(context.Background(), Event{ID: "e-1"}), boom)
}

func TestNewSQSPublisherUsesStaticCredentials(t *testing.T) {
	pub, err := newSQSPublisher(context.Background(), PublisherConfig{
		ID:   "queue",
		Type: TypeSQS,
		SQS: &SQSPublisherConfig{
			QueueURL: "http://localhost:4566/000000000000/orders",
			AWSAccess: AWSAccess{
				Region:          "us-east-1",
				Endpoint:        "http://localhost:4566",
				AccessKeyID:     "test",
				SecretAccessKey: "test",
			},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, TypeSQS, pub.Type())
	assert.Equal(t, "queue", pub.ID())
}
