// internal/common/aws/aws_test.go
package aws

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

func TestSESClient_SendTextEmail(t *testing.T) {
	api := &mockSES{}
	api.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return awssdk.ToString(in.Source) == "reports@example.com" &&
			in.Destination.ToAddresses[0] == "applicant@example.com" &&
			awssdk.ToString(in.Message.Subject.Data) == "Your credit score" &&
			in.Message.Body.Html == nil
	})).Return(&ses.SendEmailOutput{MessageId: awssdk.String("msg-1")}, nil)

	client := NewSESClientWithAPI(api, "reports@example.com")
	id, err := client.SendTextEmail(context.Background(), "applicant@example.com", "Your credit score", "body")

	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	api.AssertExpectations(t)
}

func TestSESClient_Errors(t *testing.T) {
	api := &mockSES{}
	api.On("SendEmail", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	client := NewSESClientWithAPI(api, "reports@example.com")

	_, err := client.SendTextEmail(context.Background(), "", "s", "b")
	assert.Error(t, err)

	_, err = client.SendTextEmail(context.Background(), "applicant@example.com", "s", "b")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSNSClient_SendSMS(t *testing.T) {
	api := &mockSNS{}
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		sender, ok := in.MessageAttributes["AWS.SNS.SMS.SenderID"]
		return ok && awssdk.ToString(sender.StringValue) == "CREDIT" &&
			awssdk.ToString(in.PhoneNumber) == "+919876543210"
	})).Return(&sns.PublishOutput{MessageId: awssdk.String("sms-1")}, nil)

	client := NewSNSClientWithAPI(api, "CREDIT")
	id, err := client.SendSMS(context.Background(), "+919876543210", "score 742")

	require.NoError(t, err)
	assert.Equal(t, "sms-1", id)
	api.AssertExpectations(t)
}

func TestSNSClient_WithoutSenderID(t *testing.T) {
	api := &mockSNS{}
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		_, ok := in.MessageAttributes["AWS.SNS.SMS.SenderID"]
		return !ok
	})).Return(&sns.PublishOutput{MessageId: awssdk.String("sms-2")}, nil)

	client := NewSNSClientWithAPI(api, "")
	_, err := client.SendSMS(context.Background(), "+15550100", "hi")
	require.NoError(t, err)

	_, err = client.SendSMS(context.Background(), "", "hi")
	assert.Error(t, err)
}
