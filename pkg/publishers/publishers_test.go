package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryQueueSinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: sns-alerts
    type: SNS
    sns:
      topic_arn: " arn:aws:sns:eu-west-1:123:alerts "
      region: eu-west-1
      access_key_id: AKIA
      secret_access_key: secret
  - id: gcp
    type: pubsub
    pubsub:
      project_id: proj
      topic: alerts
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	sns, ok := reg.ByID("sns-alerts")
	if !ok || sns.Type != TypeSNS {
		t.Fatalf("sns publisher not normalized: %#v", sns)
	}
	if sns.SNS.TopicARN != "arn:aws:sns:eu-west-1:123:alerts" || sns.SNS.AccessKeyID != "AKIA" {
		t.Fatalf("unexpected sns config %#v", sns.SNS)
	}
	if _, ok := reg.ByID("gcp"); !ok {
		t.Fatalf("pubsub publisher missing")
	}
}

func TestValidatePublisherConfigRejectsIncompletePubSub(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:     "gcp",
		Type:   TypePubSub,
		PubSub: &PubSubPublisherConfig{ProjectID: "proj"},
	})
	if err == nil {
		t.Fatalf("expected validation error for missing topic")
	}
}
