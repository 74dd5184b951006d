// Where: internal/compiler/kind_kafka.go
// What: Self-managed broker cluster compiler.
// Why: Self-managed clusters are addressed by bootstrap servers; network placement and
// credentials travel as source access configurations.
package compiler

import (
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/value"
)

// Source access configuration types.
const (
	accessVPCSubnet        = "VPC_SUBNET"
	accessVPCSecurityGroup = "VPC_SECURITY_GROUP"
	accessBasicAuth        = "BASIC_AUTH"
	accessScram256         = "SASL_SCRAM_256_AUTH"
	accessScram512         = "SASL_SCRAM_512_AUTH"
	accessClientTLS        = "CLIENT_CERTIFICATE_TLS_AUTH"
	accessServerRootCA     = "SERVER_ROOT_CA_CERTIFICATE"
	accessVirtualHost      = "VIRTUAL_HOST"
)

func compileKafka(p *pass, fn *model.Function) error {
	events := fn.KafkaEvents()
	if len(events) == 0 {
		return nil
	}
	ids, err := kafkaIdentities(fn, events)
	if err != nil {
		return err
	}
	ep := p.targets.resolve(fn.Name, fn)
	for _, item := range events {
		ev := item.Event
		s := p.site(fn, model.KindKafka, item.Position)
		if err := s.checkBatching(ev.Batching); err != nil {
			return err
		}
		position, err := s.startingPosition(ev.StartingPosition, ev.StartingPositionTimestamp)
		if err != nil {
			return err
		}
		access := ev.AccessConfigurations
		if err := s.checkNetworkAccess(access.VPCSubnet, access.VPCSecurityGroup); err != nil {
			return err
		}
		if err := s.checkPoller(ev.ProvisionedPollerConfig); err != nil {
			return err
		}

		pr := props{
			"BatchSize":        value.IntOr(ev.BatchSize, defaultBatchSize),
			"FunctionName":     ep.Target,
			"Enabled":          value.BoolOr(ev.Enabled, true),
			"StartingPosition": position,
			"Topics":           []any{ev.Topic},
			"SelfManagedEventSource": map[string]any{
				"Endpoints": map[string]any{"KafkaBootstrapServers": value.Strings(ev.BootstrapServers)},
			},
		}
		pr.setTimestamp(position, ev.StartingPositionTimestamp)
		pr.setInt("MaximumBatchingWindowInSeconds", ev.MaximumBatchingWindow)
		if entries := kafkaAccessEntries(access); len(entries) > 0 {
			pr["SourceAccessConfigurations"] = entries
		}
		if ev.ConsumerGroupID != "" {
			pr["SelfManagedKafkaEventSourceConfig"] = map[string]any{"ConsumerGroupId": ev.ConsumerGroupID}
		}
		pr.setPoller(ev.ProvisionedPollerConfig)
		if err := pr.setFilters(s, ev.FilterPatterns); err != nil {
			return err
		}

		if err := p.put(s, ids[item.Position], mapping(p.dependencies(fn, ep), pr)); err != nil {
			return err
		}
		if len(access.VPCSubnet) > 0 {
			p.grant(fn, model.KindKafka, classNetworkInterface, "*")
		}
		for _, secret := range kafkaSecrets(access) {
			p.grant(fn, model.KindKafka, classSecretRead, secret.Template())
		}
	}
	return nil
}

func kafkaAccessEntries(access model.KafkaAccess) []any {
	var entries []any
	for _, subnet := range access.VPCSubnet {
		entries = append(entries, accessEntry(accessVPCSubnet, "subnet:"+subnet))
	}
	for _, group := range access.VPCSecurityGroup {
		entries = append(entries, accessEntry(accessVPCSecurityGroup, "security_group:"+group))
	}
	credentials := []struct {
		kind string
		refs []model.Reference
	}{
		{accessBasicAuth, access.SASLPlainAuth},
		{accessScram256, access.SASLScram256Auth},
		{accessScram512, access.SASLScram512Auth},
		{accessClientTLS, access.ClientCertificateTLSAuth},
		{accessServerRootCA, access.ServerRootCACertificate},
	}
	for _, cred := range credentials {
		for _, ref := range cred.refs {
			entries = append(entries, accessEntry(cred.kind, ref.Template()))
		}
	}
	return entries
}

func kafkaSecrets(access model.KafkaAccess) []model.Reference {
	var secrets []model.Reference
	secrets = append(secrets, access.SASLPlainAuth...)
	secrets = append(secrets, access.SASLScram256Auth...)
	secrets = append(secrets, access.SASLScram512Auth...)
	secrets = append(secrets, access.ClientCertificateTLSAuth...)
	return append(secrets, access.ServerRootCACertificate...)
}
