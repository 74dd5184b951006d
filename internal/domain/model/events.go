// Where: internal/domain/model/events.go
// What: Per-kind event declaration payloads.
// Why: Each trigger kind carries different batching, position and access settings.
package model

// Starting positions for stream-like sources.
const (
	PositionTrimHorizon = "TRIM_HORIZON"
	PositionLatest      = "LATEST"
	PositionAtTimestamp = "AT_TIMESTAMP"
)

// Poller modes for broker sources.
const (
	PollerModeProvisioned = "provisioned"
	PollerModeOnDemand    = "on-demand"
)

// MQ broker protocols.
const (
	ProtocolActiveMQ = "activemq"
	ProtocolRabbitMQ = "rabbitmq"
)

// Change-stream backing stores.
const (
	StreamDynamoDB = "dynamodb"
	StreamKinesis  = "kinesis"
)

// Batching holds the controls shared by every event-source mapping kind.
type Batching struct {
	BatchSize             *int `mapstructure:"batchSize"`
	MaximumBatchingWindow *int `mapstructure:"maximumBatchingWindow"`
}

// PollerConfig configures dedicated broker pollers.
type PollerConfig struct {
	Mode           string `mapstructure:"mode"`
	MinimumPollers *int   `mapstructure:"minimumPollers"`
	MaximumPollers *int   `mapstructure:"maximumPollers"`
}

// QueueEvent binds a queue to the function.
type QueueEvent struct {
	Batching             `mapstructure:",squash"`
	ARN                  Reference `mapstructure:"arn"`
	QueueName            string    `mapstructure:"queueName"`
	Enabled              *bool     `mapstructure:"enabled"`
	FunctionResponseType string    `mapstructure:"functionResponseType"`
	MaximumConcurrency   *int      `mapstructure:"maximumConcurrency"`
	FilterPatterns       []any     `mapstructure:"filterPatterns"`
}

// StreamConsumer selects how a change stream is read: shared iterator, a consumer created
// for this function, or an existing consumer.
type StreamConsumer struct {
	Dedicated bool
	ARN       *Reference
}

// FailureDestination receives records that exhausted retries.
type FailureDestination struct {
	ARN  Reference `mapstructure:"arn"`
	Type string    `mapstructure:"type"`
}

// StreamDestinations holds stream failure routing.
type StreamDestinations struct {
	OnFailure *FailureDestination `mapstructure:"onFailure"`
}

// StreamEvent binds a change stream to the function.
type StreamEvent struct {
	Batching                   `mapstructure:",squash"`
	ARN                        Reference           `mapstructure:"arn"`
	Type                       string              `mapstructure:"type"`
	StreamName                 string              `mapstructure:"streamName"`
	StartingPosition           string              `mapstructure:"startingPosition"`
	StartingPositionTimestamp  *float64            `mapstructure:"startingPositionTimestamp"`
	Enabled                    *bool               `mapstructure:"enabled"`
	ParallelizationFactor      *int                `mapstructure:"parallelizationFactor"`
	MaximumRetryAttempts       *int                `mapstructure:"maximumRetryAttempts"`
	MaximumRecordAgeInSeconds  *int                `mapstructure:"maximumRecordAgeInSeconds"`
	BisectBatchOnFunctionError *bool               `mapstructure:"bisectBatchOnFunctionError"`
	FunctionResponseType       string              `mapstructure:"functionResponseType"`
	TumblingWindowInSeconds    *int                `mapstructure:"tumblingWindowInSeconds"`
	Consumer                   StreamConsumer      `mapstructure:"consumer"`
	Destinations               *StreamDestinations `mapstructure:"destinations"`
	FilterPatterns             []any               `mapstructure:"filterPatterns"`
}

// KafkaAccess lists self-managed broker access configurations.
type KafkaAccess struct {
	VPCSubnet                []string    `mapstructure:"vpcSubnet"`
	VPCSecurityGroup         []string    `mapstructure:"vpcSecurityGroup"`
	SASLPlainAuth            []Reference `mapstructure:"saslPlainAuth"`
	SASLScram256Auth         []Reference `mapstructure:"saslScram256Auth"`
	SASLScram512Auth         []Reference `mapstructure:"saslScram512Auth"`
	ClientCertificateTLSAuth []Reference `mapstructure:"clientCertificateTlsAuth"`
	ServerRootCACertificate  []Reference `mapstructure:"serverRootCaCertificate"`
}

// KafkaEvent binds a topic on a self-managed broker cluster to the function.
type KafkaEvent struct {
	Batching                  `mapstructure:",squash"`
	BootstrapServers          []string      `mapstructure:"bootstrapServers"`
	Topic                     string        `mapstructure:"topic"`
	AccessConfigurations      KafkaAccess   `mapstructure:"accessConfigurations"`
	StartingPosition          string        `mapstructure:"startingPosition"`
	StartingPositionTimestamp *float64      `mapstructure:"startingPositionTimestamp"`
	Enabled                   *bool         `mapstructure:"enabled"`
	ConsumerGroupID           string        `mapstructure:"consumerGroupId"`
	FilterPatterns            []any         `mapstructure:"filterPatterns"`
	ProvisionedPollerConfig   *PollerConfig `mapstructure:"provisionedPollerConfig"`
}

// MSKEvent binds a topic on a managed broker cluster to the function.
type MSKEvent struct {
	Batching                  `mapstructure:",squash"`
	ARN                       Reference     `mapstructure:"arn"`
	Topic                     string        `mapstructure:"topic"`
	StartingPosition          string        `mapstructure:"startingPosition"`
	StartingPositionTimestamp *float64      `mapstructure:"startingPositionTimestamp"`
	Enabled                   *bool         `mapstructure:"enabled"`
	SASLScram512              *Reference    `mapstructure:"saslScram512"`
	ConsumerGroupID           string        `mapstructure:"consumerGroupId"`
	FilterPatterns            []any         `mapstructure:"filterPatterns"`
	ProvisionedPollerConfig   *PollerConfig `mapstructure:"provisionedPollerConfig"`
}

// MQEvent binds a queue on an ActiveMQ or RabbitMQ broker to the function.
type MQEvent struct {
	Batching       `mapstructure:",squash"`
	Protocol       string    `mapstructure:"-"`
	ARN            Reference `mapstructure:"arn"`
	Queue          string    `mapstructure:"queue"`
	BasicAuthARN   Reference `mapstructure:"basicAuthArn"`
	VirtualHost    string    `mapstructure:"virtualHost"`
	Enabled        *bool     `mapstructure:"enabled"`
	FilterPatterns []any     `mapstructure:"filterPatterns"`
}

// ImportedQueue names exported outputs holding a dead-letter queue's ARN and URL.
type ImportedQueue struct {
	ARN string `mapstructure:"arn"`
	URL string `mapstructure:"url"`
}

// RedrivePolicy routes undeliverable notifications to a queue.
type RedrivePolicy struct {
	DeadLetterTargetARN    string         `mapstructure:"deadLetterTargetArn"`
	DeadLetterTargetRef    string         `mapstructure:"deadLetterTargetRef"`
	DeadLetterTargetImport *ImportedQueue `mapstructure:"deadLetterTargetImport"`
}

// TopicEvent subscribes the function to an existing or new pub/sub topic.
type TopicEvent struct {
	ARN               *Reference     `mapstructure:"arn"`
	TopicName         string         `mapstructure:"topicName"`
	DisplayName       string         `mapstructure:"displayName"`
	FilterPolicy      map[string]any `mapstructure:"filterPolicy"`
	FilterPolicyScope string         `mapstructure:"filterPolicyScope"`
	RedrivePolicy     *RedrivePolicy `mapstructure:"redrivePolicy"`
}

// RuleEvent routes messages matching a rule query to the function.
type RuleEvent struct {
	SQL         string `mapstructure:"sql"`
	SQLVersion  string `mapstructure:"sqlVersion"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Enabled     *bool  `mapstructure:"enabled"`
}
