// Where: internal/infra/servicedoc/loader.go
// What: Service document loading into the declaration model.
// Why: Parse, shape-check and decode in one place so the compiler only ever sees
// well-formed declarations in document order.
package servicedoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/value"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/infra/schema"
)

var (
	errEmptyDocument  = errors.New("service document is empty")
	errMalformedEvent = errors.New("event must declare exactly one kind")
	errUnknownEvent   = errors.New("unknown event kind")
)

// Result is a loaded service with non-fatal diagnostics.
type Result struct {
	Service  *model.Service
	Warnings []string
}

type serviceDocument struct {
	Service   string                      `mapstructure:"service"`
	Functions map[string]functionDocument `mapstructure:"functions"`
}

type functionDocument struct {
	Role   *model.Reference `mapstructure:"role"`
	Alias  string           `mapstructure:"alias"`
	Events []model.Event    `mapstructure:"events"`
}

// Load reads and parses a service document from disk.
func Load(path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service document: %w", err)
	}
	return Parse(content)
}

// Parse decodes a YAML (or JSON) service document.
func Parse(content []byte) (*Result, error) {
	if strings.TrimSpace(string(content)) == "" {
		return nil, errEmptyDocument
	}
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("parse service document: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errEmptyDocument
	}
	body := root.Content[0]

	document, err := normalize(decodeNode(body))
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(document); err != nil {
		return nil, err
	}

	var doc serviceDocument
	if err := decodeInto(document, &doc); err != nil {
		return nil, fmt.Errorf("decode service document: %w", err)
	}

	order := mappingKeys(body, "functions")
	if len(order) != len(doc.Functions) {
		order = value.SortedKeys(doc.Functions)
	}
	warnings := &warningCollector{}
	svc := &model.Service{Name: doc.Service}
	for _, name := range order {
		fn := doc.Functions[name]
		if len(fn.Events) == 0 {
			warnings.warnf("function %q declares no events", name)
		}
		checkEvents(warnings, name, fn.Events)
		svc.Functions = append(svc.Functions, model.Function{
			Name:   name,
			Role:   fn.Role,
			Alias:  fn.Alias,
			Events: fn.Events,
		})
	}
	return &Result{Service: svc, Warnings: warnings.list()}, nil
}

// normalize round-trips through JSON so the schema sees plain JSON values.
func normalize(decoded any) (any, error) {
	payload, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("encode service document: %w", err)
	}
	var document any
	if err := json.Unmarshal(payload, &document); err != nil {
		return nil, fmt.Errorf("decode service document: %w", err)
	}
	return document, nil
}

func checkEvents(warnings *warningCollector, function string, events []model.Event) {
	for i, ev := range events {
		if ev.Stream == nil || !ev.Stream.Consumer.Dedicated && ev.Stream.Consumer.ARN == nil {
			continue
		}
		streamType := strings.ToLower(ev.Stream.Type)
		if streamType == "" && ev.Stream.ARN.IsLiteral() && strings.Contains(ev.Stream.ARN.Literal, ":dynamodb:") {
			streamType = model.StreamDynamoDB
		}
		if streamType == model.StreamDynamoDB {
			warnings.warnf("function %q event #%d: consumer applies to kinesis streams only and is ignored", function, i+1)
		}
	}
}
