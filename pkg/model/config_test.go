package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestCfgUnmarshal(t *testing.T) {
	raw := []byte(`
common:
  production: false
  mongo:
    uri: mongodb://localhost:27017
  tracing:
    addr: localhost:4318
    type: otlptracehttp
    timeout: 10
  key_value:
    addr: localhost:6379
    db: 0
    password: secret
  kafka:
    brokers:
      - localhost:9092
verifier:
  api_server:
    addr: :8080
  session_cookie_authentication_key: authkey
  session_store_encryption_key: enckey
  external_url: https://verifier.example.com
  ephemeral_id_secret: topsecret
use_case_registry:
  use_cases:
    pid_age_over_18:
      vct_values:
        - "urn:eudi:pid:1"
      claim_paths:
        - "age_over_18"
      return_url_policy: same_device
`)

	cfg := &Cfg{}
	err := yaml.Unmarshal(raw, cfg)
	assert.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Common.Mongo.URI)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Common.Kafka.Brokers)
	assert.Equal(t, ":8080", cfg.Verifier.APIServer.Addr)

	uc, ok := cfg.UseCaseRegistry.UseCases["pid_age_over_18"]
	assert.True(t, ok)
	assert.Equal(t, []string{"age_over_18"}, uc.ClaimPaths)
}
