// Package aws publishes operational alerts through SNS and SES.
package aws

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"dining-recommender/internal/common/config"
	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/common/logger"
)

// maxSubjectLen is the SNS subject limit.
const maxSubjectLen = 100

// SNSPublisher and SESSender are the slices of the AWS clients the alerter
// calls, so tests can substitute fakes.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SESSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Alert struct {
	Subject string
	Message string
}

// Alerter fans an alert out to every configured channel.
type Alerter struct {
	sns      SNSPublisher
	topicARN string
	ses      SESSender
	from     string
	to       []string
	logger   logger.Logger
}

// NewAlerter loads AWS credentials only when a channel is enabled.
func NewAlerter(ctx context.Context, cfg config.AlertsConfig, log logger.Logger) (*Alerter, error) {
	a := &Alerter{logger: log.WithFields(map[string]interface{}{"component": "alerter"})}
	if !cfg.SNS.Enabled && !cfg.SES.Enabled {
		return a, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	if cfg.SNS.Enabled {
		a.sns = sns.NewFromConfig(awsCfg)
		a.topicARN = cfg.SNS.TopicARN
	}
	if cfg.SES.Enabled {
		a.ses = ses.NewFromConfig(awsCfg)
		a.from = cfg.SES.FromEmail
		a.to = cfg.SES.ToEmails
	}
	return a, nil
}

// NewAlerterWithClients wires explicit clients. Either may be nil.
func NewAlerterWithClients(snsClient SNSPublisher, topicARN string, sesClient SESSender, from string, to []string, log logger.Logger) *Alerter {
	return &Alerter{
		sns:      snsClient,
		topicARN: topicARN,
		ses:      sesClient,
		from:     from,
		to:       to,
		logger:   log.WithFields(map[string]interface{}{"component": "alerter"}),
	}
}

// Enabled reports whether any channel is configured.
func (a *Alerter) Enabled() bool {
	return a != nil && (a.sns != nil || a.ses != nil)
}

// Notify sends alert on every channel; a failing channel does not stop the others.
func (a *Alerter) Notify(ctx context.Context, alert Alert) error {
	if !a.Enabled() {
		return nil
	}

	var errs []error
	if a.sns != nil {
		_, err := a.sns.Publish(ctx, &sns.PublishInput{
			TopicArn: aws.String(a.topicARN),
			Subject:  aws.String(truncate(alert.Subject, maxSubjectLen)),
			Message:  aws.String(alert.Message),
		})
		if err != nil {
			errs = append(errs, apperrors.NewAlertPublishFailedError("sns", err))
		}
	}
	if a.ses != nil {
		_, err := a.ses.SendEmail(ctx, &ses.SendEmailInput{
			Source:      aws.String(a.from),
			Destination: &sestypes.Destination{ToAddresses: a.to},
			Message: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(alert.Subject)},
				Body:    &sestypes.Body{Text: &sestypes.Content{Data: aws.String(alert.Message)}},
			},
		})
		if err != nil {
			errs = append(errs, apperrors.NewAlertPublishFailedError("ses", err))
		}
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		a.logger.Error("alert delivery failed", map[string]interface{}{
			"subject": alert.Subject,
			"error":   err.Error(),
		})
		return err
	}

	a.logger.Info("alert sent", map[string]interface{}{"subject": alert.Subject})
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
