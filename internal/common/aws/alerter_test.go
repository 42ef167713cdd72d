package aws

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-recommender/internal/common/config"
	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/common/logger"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{}, f.err
}

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	return &ses.SendEmailOutput{}, f.err
}

func TestAlerter_Notify(t *testing.T) {
	snsClient := &fakeSNS{}
	sesClient := &fakeSES{}
	alerter := NewAlerterWithClients(snsClient, "arn:aws:sns:us-east-1:123:dataset", sesClient,
		"alerts@example.com", []string{"owner@example.com"}, logger.NewNoOpLogger())

	err := alerter.Notify(context.Background(), Alert{
		Subject: strings.Repeat("x", 150),
		Message: "restaurant r2 missing from public_signals",
	})
	require.NoError(t, err)

	require.Len(t, snsClient.inputs, 1)
	assert.Equal(t, "arn:aws:sns:us-east-1:123:dataset", *snsClient.inputs[0].TopicArn)
	assert.Len(t, *snsClient.inputs[0].Subject, maxSubjectLen)

	require.Len(t, sesClient.inputs, 1)
	assert.Equal(t, []string{"owner@example.com"}, sesClient.inputs[0].Destination.ToAddresses)
	assert.Equal(t, "restaurant r2 missing from public_signals", *sesClient.inputs[0].Message.Body.Text.Data)
}

func TestAlerter_ChannelFailureDoesNotStopOthers(t *testing.T) {
	snsClient := &fakeSNS{err: errors.New("throttled")}
	sesClient := &fakeSES{}
	alerter := NewAlerterWithClients(snsClient, "arn", sesClient, "a@example.com", []string{"b@example.com"}, logger.NewNoOpLogger())

	err := alerter.Notify(context.Background(), Alert{Subject: "s", Message: "m"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAlertPublishFailed))
	assert.Len(t, sesClient.inputs, 1)
}

func TestAlerter_Disabled(t *testing.T) {
	alerter, err := NewAlerter(context.Background(), config.AlertsConfig{Region: "us-east-1"}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.False(t, alerter.Enabled())
	assert.NoError(t, alerter.Notify(context.Background(), Alert{Subject: "s"}))
}
