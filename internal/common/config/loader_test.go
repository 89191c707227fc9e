package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// Loading
// ==========================

func TestLoadFromFile_MinimalUsesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: quotation-service
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, EmailProviderLog, cfg.Email.Provider)
	assert.Equal(t, "info@vxn-nexia.com", cfg.Email.From)
	assert.Equal(t, "VXN-NEXIA", cfg.Email.FromName)
	assert.Equal(t, 30000, cfg.Email.DispatchTimeout)
	assert.Equal(t, "VXN", cfg.Quotation.Reference.Prefix)
	assert.Equal(t, 5, cfg.Quotation.Reference.MaxAttempts)
	assert.Len(t, cfg.Quotation.Phases, 6)
	assert.True(t, cfg.Quotation.Features.EnablePDFDownload)
	assert.Equal(t, "quotation-events", cfg.Database.Elasticsearch.Index)
}

func TestLoadFromFile_OverridesQuotationFields(t *testing.T) {
	path := writeConfig(t, `
email:
  provider: smtp
integrations:
  smtp:
    host: smtp.example.com
quotation:
  company:
    name: ACME
  reference:
    prefix: ACM
  notifications:
    internal_recipients: [sales@acme.test]
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ACME", cfg.Quotation.Company.Name)
	assert.Equal(t, "ACM", cfg.Quotation.Reference.Prefix)
	assert.Equal(t, []string{"sales@acme.test"}, cfg.Quotation.Notifications.InternalRecipients)
	assert.Equal(t, 587, cfg.Integrations.SMTP.Port)
	// untouched keys keep their built-in value
	assert.Equal(t, "info@vxn-nexia.com", cfg.Quotation.Company.Email)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_POSTMARK_TOKEN", "pm-token")
	path := writeConfig(t, `
email:
  provider: postmark
integrations:
  postmark:
    server_token: ${TEST_POSTMARK_TOKEN}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pm-token", cfg.Integrations.Postmark.ServerToken)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "unknown provider",
			body: "email:\n  provider: pigeon\n",
			want: "not supported",
		},
		{
			name: "smtp without host",
			body: "email:\n  provider: smtp\n",
			want: "smtp.host",
		},
		{
			name: "camunda enabled without broker",
			body: "camunda:\n  enabled: true\n",
			want: "broker_address",
		},
		{
			name: "rate limiting without redis",
			body: "quotation:\n  features:\n    enable_rate_limiting: true\n",
			want: "redis.address",
		},
		{
			name: "prefix with dash",
			body: "quotation:\n  reference:\n    prefix: VX-N\n",
			want: "prefix",
		},
		{
			name: "unknown subject placeholder",
			body: "quotation:\n  notifications:\n    client_subject: \"Hi {{firstName}}\"\n",
			want: "unknown placeholder",
		},
		{
			name: "invalid internal recipient",
			body: "quotation:\n  notifications:\n    internal_recipients: [\"sales@\"]\n",
			want: "invalid address",
		},
		{
			name: "meeting link not a url",
			body: "quotation:\n  meetings:\n    default_link: teams\n",
			want: "default_link",
		},
		{
			name: "terms not summing to 100",
			body: "quotation:\n  terms:\n    one_time:\n      deposit: 60\n",
			want: "sum to 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// ==========================
// Quotation helpers
// ==========================

func TestQuotationConfig_Labels(t *testing.T) {
	q := DefaultQuotationConfig()

	assert.Equal(t, "Standard - 3-4 months", q.TimelineLabel("standard"))
	assert.Equal(t, "someday", q.TimelineLabel("someday"))
	assert.Equal(t, "Software as a Service (SaaS)", q.ServiceTypeLabel("saas"))
	assert.Equal(t, []string{"urgent", "standard", "flexible"}, q.TimelineValues())
	assert.Equal(t, "123 Innovation Drive, Sandton, Johannesburg 2196", q.Company.Address.FullAddress())
}

func TestQuotationConfig_ValidateBranding(t *testing.T) {
	q := DefaultQuotationConfig()
	q.PDF.Branding.Primary = "blue"
	assert.Error(t, q.Validate())

	q = DefaultQuotationConfig()
	q.PDF.Margins.Left = 100
	q.PDF.Margins.Right = 100
	assert.Error(t, q.Validate())

	assert.NoError(t, DefaultQuotationConfig().Validate())
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"submit-quotation": {Enabled: false, MaxJobsActive: 2, Timeout: 1000, MaxRetries: 1},
	}}

	assert.Equal(t, 2, GetWorkerConfig(cfg, "submit-quotation").MaxJobsActive)
	assert.Equal(t, 5, GetWorkerConfig(cfg, "other").MaxJobsActive)
	assert.False(t, IsWorkerEnabled(cfg, "submit-quotation"))
	assert.True(t, IsWorkerEnabled(cfg, "other"))
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
