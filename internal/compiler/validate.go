// Where: internal/compiler/validate.go
// What: Event setting validation shared by the mapping kinds.
// Why: Out-of-range settings are rejected at compile time rather than at deploy time.
package compiler

import (
	"strings"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

const (
	minBatchSize   = 1
	maxBatchSize   = 10000
	maxBatchWindow = 300
)

func (s site) checkBatching(b model.Batching) error {
	if b.BatchSize != nil && (*b.BatchSize < minBatchSize || *b.BatchSize > maxBatchSize) {
		return s.fail(CodeBatchSizeOutOfRange, "batchSize %d is outside %d..%d", *b.BatchSize, minBatchSize, maxBatchSize)
	}
	if b.MaximumBatchingWindow != nil && (*b.MaximumBatchingWindow < 0 || *b.MaximumBatchingWindow > maxBatchWindow) {
		return s.fail(CodeBatchWindowOutOfRange, "maximumBatchingWindow %d is outside 0..%d", *b.MaximumBatchingWindow, maxBatchWindow)
	}
	return nil
}

// startingPosition returns the effective position, defaulting to TRIM_HORIZON.
func (s site) startingPosition(position string, timestamp *float64) (string, error) {
	if position == "" {
		position = model.PositionTrimHorizon
	}
	position = strings.ToUpper(position)
	if position == model.PositionAtTimestamp && timestamp == nil {
		return "", s.fail(CodeMissingTimestamp, "startingPosition AT_TIMESTAMP requires startingPositionTimestamp")
	}
	return position, nil
}

// checkNetworkAccess requires subnets and security groups together.
func (s site) checkNetworkAccess(subnets, groups []string) error {
	if (len(subnets) == 0) != (len(groups) == 0) {
		return s.fail(CodeIncompleteNetwork, "vpcSubnet and vpcSecurityGroup must be declared together")
	}
	return nil
}

// checkPoller validates a provisioned poller block. A block without a mode is provisioned.
func (s site) checkPoller(p *model.PollerConfig) error {
	if p == nil {
		return nil
	}
	mode := p.Mode
	if mode == "" {
		mode = model.PollerModeProvisioned
	}
	if p.MinimumPollers != nil && mode != model.PollerModeProvisioned {
		return s.fail(CodeInvalidPollerConfig, "minimumPollers requires mode %q, got %q", model.PollerModeProvisioned, mode)
	}
	if p.MinimumPollers != nil && p.MaximumPollers != nil && *p.MinimumPollers > *p.MaximumPollers {
		return s.fail(CodeInvalidPollerConfig, "minimumPollers %d exceeds maximumPollers %d", *p.MinimumPollers, *p.MaximumPollers)
	}
	return nil
}
