package publishers

import (
	"errors"
	"fmt"
	"strings"
)

// Supported publisher types.
const (
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeHTTP      = "http"
	TypeGCPPubSub = "gcp_pubsub"
	TypeKafka     = "kafka"
)

const (
	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// sink is everything the package knows about one publisher type: how to
// normalize its config block, which fields it needs, and how to build it.
type sink struct {
	normalize func(*PublisherConfig)
	required  func(PublisherConfig) []field
	build     Builder
}

// field is a required config key and whether it is set.
type field struct {
	key string
	set bool
}

var sinks = map[string]sink{
	TypeSQS: {
		normalize: func(cfg *PublisherConfig) {
			if cfg.SQS == nil {
				return
			}
			c := *cfg.SQS
			c.QueueURL = strings.TrimSpace(c.QueueURL)
			c.AWSAccess = trimAWSAccess(c.AWSAccess)
			cfg.SQS = &c
		},
		required: func(cfg PublisherConfig) []field {
			if cfg.SQS == nil {
				return []field{{key: "sqs"}}
			}
			return []field{
				{key: "sqs.uri", set: cfg.SQS.QueueURL != ""},
				{key: "sqs.region", set: cfg.SQS.Region != ""},
			}
		},
		build: newSQSPublisher,
	},
	TypeSNS: {
		normalize: func(cfg *PublisherConfig) {
			if cfg.SNS == nil {
				return
			}
			c := *cfg.SNS
			c.TopicARN = strings.TrimSpace(c.TopicARN)
			c.AWSAccess = trimAWSAccess(c.AWSAccess)
			cfg.SNS = &c
		},
		required: func(cfg PublisherConfig) []field {
			if cfg.SNS == nil {
				return []field{{key: "sns"}}
			}
			return []field{
				{key: "sns.topic_arn", set: cfg.SNS.TopicARN != ""},
				{key: "sns.region", set: cfg.SNS.Region != ""},
			}
		},
		build: newSNSPublisher,
	},
	TypeHTTP: {
		normalize: func(cfg *PublisherConfig) {
			if cfg.HTTP == nil {
				return
			}
			c := *cfg.HTTP
			c.URL = strings.TrimSpace(c.URL)
			c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
			if c.Method == "" {
				c.Method = httpDefaultMethod
			}
			c.Headers = compactHeaders(c.Headers)
			if c.TimeoutSeconds <= 0 {
				c.TimeoutSeconds = httpDefaultTimeoutSeconds
			}
			cfg.HTTP = &c
		},
		required: func(cfg PublisherConfig) []field {
			if cfg.HTTP == nil {
				return []field{{key: "http"}}
			}
			return []field{{key: "http.url", set: cfg.HTTP.URL != ""}}
		},
		build: newHTTPPublisher,
	},
	TypeGCPPubSub: {
		normalize: func(cfg *PublisherConfig) {
			if cfg.GCPPubSub == nil {
				return
			}
			c := *cfg.GCPPubSub
			c.ProjectID = strings.TrimSpace(c.ProjectID)
			c.Topic = strings.TrimSpace(c.Topic)
			c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
			c.Endpoint = strings.TrimSpace(c.Endpoint)
			cfg.GCPPubSub = &c
		},
		required: func(cfg PublisherConfig) []field {
			if cfg.GCPPubSub == nil {
				return []field{{key: "gcp_pubsub"}}
			}
			return []field{
				{key: "gcp_pubsub.project_id", set: cfg.GCPPubSub.ProjectID != ""},
				{key: "gcp_pubsub.topic", set: cfg.GCPPubSub.Topic != ""},
			}
		},
		build: newGCPPubSubPublisher,
	},
	TypeKafka: {
		normalize: func(cfg *PublisherConfig) {
			if cfg.Kafka == nil {
				return
			}
			c := *cfg.Kafka
			brokers := make([]string, 0, len(c.Brokers))
			for _, b := range c.Brokers {
				if b = strings.TrimSpace(b); b != "" {
					brokers = append(brokers, b)
				}
			}
			c.Brokers = brokers
			c.Topic = strings.TrimSpace(c.Topic)
			cfg.Kafka = &c
		},
		required: func(cfg PublisherConfig) []field {
			if cfg.Kafka == nil {
				return []field{{key: "kafka"}}
			}
			return []field{
				{key: "kafka.brokers", set: len(cfg.Kafka.Brokers) > 0},
				{key: "kafka.topic", set: cfg.Kafka.Topic != ""},
			}
		},
		build: newKafkaPublisher,
	},
}

// normalizePublisherConfig trims the entry and the block of its declared type.
func normalizePublisherConfig(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}
	if s, ok := sinks[cfg.Type]; ok {
		s.normalize(&cfg)
	}
	return cfg
}

// validatePublisherConfig reports every required key the entry is missing.
func validatePublisherConfig(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.Type == "" {
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	}
	s, ok := sinks[cfg.Type]
	if !ok {
		return fmt.Errorf("unsupported type %q for publisher %q", cfg.Type, cfg.ID)
	}
	var missing []string
	for _, f := range s.required(cfg) {
		if !f.set {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("publisher %q is missing %s", cfg.ID, strings.Join(missing, ", "))
	}
	return nil
}

func trimAWSAccess(a AWSAccess) AWSAccess {
	a.Region = strings.TrimSpace(a.Region)
	a.Endpoint = strings.TrimSpace(a.Endpoint)
	a.AccessKeyID = strings.TrimSpace(a.AccessKeyID)
	a.SecretAccessKey = strings.TrimSpace(a.SecretAccessKey)
	return a
}

// compactHeaders trims header keys and values and drops blank ones.
func compactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
