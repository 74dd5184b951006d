// Where: internal/domain/model/service.go
// What: Service, function and event declarations handed to the compiler.
// Why: Keep the declaration model free of loader and template concerns.
package model

// Kind is a trigger kind handled by one compiler.
type Kind string

const (
	KindQueue  Kind = "sqs"
	KindStream Kind = "stream"
	KindKafka  Kind = "kafka"
	KindMSK    Kind = "msk"
	KindMQ     Kind = "mq"
	KindTopic  Kind = "sns"
	KindRule   Kind = "iot"
)

// Kinds lists every trigger kind in compilation order.
var Kinds = []Kind{KindQueue, KindStream, KindKafka, KindMSK, KindMQ, KindTopic, KindRule}

// Service is the root of one compilation pass.
type Service struct {
	Name      string
	Functions []Function
}

// Function returns the named function declaration.
func (s *Service) Function(name string) (*Function, bool) {
	for i := range s.Functions {
		if s.Functions[i].Name == name {
			return &s.Functions[i], true
		}
	}
	return nil, false
}

// Function is one deployable function and its triggers.
type Function struct {
	Name   string
	Role   *Reference
	Alias  string
	Events []Event
}

// HasKind reports whether any event of the given kind is declared.
func (f *Function) HasKind(kind Kind) bool {
	for _, ev := range f.Events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

// Event is a tagged variant; exactly the field matching Kind is set.
type Event struct {
	Kind   Kind
	Queue  *QueueEvent
	Stream *StreamEvent
	Kafka  *KafkaEvent
	MSK    *MSKEvent
	MQ     *MQEvent
	Topic  *TopicEvent
	Rule   *RuleEvent
}

// Indexed pairs an event with its 1-based position in the function's declaration list.
type Indexed[T any] struct {
	Position int
	Event    *T
}

// QueueEvents returns the function's queue events in declaration order.
func (f *Function) QueueEvents() []Indexed[QueueEvent] {
	return collect(f, func(ev Event) *QueueEvent { return ev.Queue })
}

// StreamEvents returns the function's change-stream events in declaration order.
func (f *Function) StreamEvents() []Indexed[StreamEvent] {
	return collect(f, func(ev Event) *StreamEvent { return ev.Stream })
}

// KafkaEvents returns the function's self-managed broker events in declaration order.
func (f *Function) KafkaEvents() []Indexed[KafkaEvent] {
	return collect(f, func(ev Event) *KafkaEvent { return ev.Kafka })
}

// MSKEvents returns the function's managed broker events in declaration order.
func (f *Function) MSKEvents() []Indexed[MSKEvent] {
	return collect(f, func(ev Event) *MSKEvent { return ev.MSK })
}

// MQEvents returns the function's message-queue broker events in declaration order.
func (f *Function) MQEvents() []Indexed[MQEvent] {
	return collect(f, func(ev Event) *MQEvent { return ev.MQ })
}

// TopicEvents returns the function's pub/sub events in declaration order.
func (f *Function) TopicEvents() []Indexed[TopicEvent] {
	return collect(f, func(ev Event) *TopicEvent { return ev.Topic })
}

// RuleEvents returns the function's rule-based ingestion events in declaration order.
func (f *Function) RuleEvents() []Indexed[RuleEvent] {
	return collect(f, func(ev Event) *RuleEvent { return ev.Rule })
}

func collect[T any](f *Function, pick func(Event) *T) []Indexed[T] {
	var out []Indexed[T]
	for i, ev := range f.Events {
		if item := pick(ev); item != nil {
			out = append(out, Indexed[T]{Position: i + 1, Event: item})
		}
	}
	return out
}
