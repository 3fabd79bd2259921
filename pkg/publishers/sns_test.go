package publishers

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/samvad-hq/checkout-kit/internal/domain"
	"github.com/samvad-hq/checkout-kit/pkg/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSNSPublisherPublishesToTopic(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{id: "topic", typ: TypeSNS, topicARN: "arn:aws:sns:us-east-1:0:orders", client: client, log: noopLogger{}}

	evt := NewEvent(domain.Sandbox, OperationCreateOrder, orders.Order{ID: "O-2", Status: "CREATED"})
	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, "arn:aws:sns:us-east-1:0:orders", aws.ToString(client.input.TopicArn))
	assert.Equal(t, OperationCreateOrder, aws.ToString(client.input.Subject))
	assert.Equal(t, "CREATED", aws.ToString(client.input.MessageAttributes["order_status"].StringValue))
}

func TestSNSPublisherWrapsError(t *testing.T) {
	boom := errors.New("denied")
	pub := &snsPublisher{id: "topic", typ: TypeSNS, topicARN: "arn", client: &fakeSNSClient{err: boom}, log: noopLogger{}}

	assert.ErrorIs(t, pub.Publish(context.Background(), Event{ID: "e"}), boom)
}
