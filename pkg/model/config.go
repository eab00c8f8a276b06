package model

// APIServer holds the api server configuration
type APIServer struct {
	Addr       string            `yaml:"addr" validate:"required"`
	PublicKeys map[string]string `yaml:"public_keys"`
	TLS        TLS               `yaml:"tls" validate:"omitempty"`
	BasicAuth  BasicAuth         `yaml:"basic_auth"`
}

// TLS holds the tls configuration
type TLS struct {
	Enabled      bool   `yaml:"enabled"`
	CertFilePath string `yaml:"cert_file_path" validate:"required"`
	KeyFilePath  string `yaml:"key_file_path" validate:"required"`
}

// Mongo holds the session-store database configuration
type Mongo struct {
	URI string `yaml:"uri" validate:"required"`
}

// KeyValue holds the key/value configuration used for ephemeral and
// replay-protection state (nonce tracking, request-object caching)
type KeyValue struct {
	Addr     string `yaml:"addr" validate:"required"`
	DB       int    `yaml:"db" validate:"required"`
	Password string `yaml:"password" validate:"required"`
}

// Kafka holds the broker configuration for publishing session lifecycle events
type Kafka struct {
	Brokers []string    `yaml:"brokers" validate:"required"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics names the topics this module publishes to
type KafkaTopics struct {
	SessionEvents string `yaml:"session_events" default:"verifier_session_events"`
}

// Log holds the log configuration
type Log struct {
	Level      string `yaml:"level"`
	FolderPath string `yaml:"folder_path"`
}

// Common holds the configuration shared across every component of this module
type Common struct {
	HTTPProxy  string   `yaml:"http_proxy"`
	Production bool     `yaml:"production"`
	Log        Log      `yaml:"log"`
	Mongo      Mongo     `yaml:"mongo" validate:"required"`
	Tracing    OTEL      `yaml:"tracing" validate:"required"`
	KeyValue   KeyValue  `yaml:"key_value" validate:"omitempty"`
	Kafka      Kafka     `yaml:"kafka" validate:"omitempty"`
	QR         QRCfg     `yaml:"qr" validate:"omitempty"`
}

// QRCfg holds the QR-code rendering configuration for engagement/universal-link payloads
type QRCfg struct {
	BaseURL       string `yaml:"base_url" validate:"required"`
	RecoveryLevel int    `yaml:"recovery_level" validate:"required,min=0,max=3"`
	Size          int    `yaml:"size" validate:"required"`
}

// OTEL holds the opentelemetry configuration
type OTEL struct {
	Addr    string `yaml:"addr" validate:"required"`
	Type    string `yaml:"type" validate:"required"`
	Timeout int64  `yaml:"timeout" default:"10"`
}

// BasicAuth holds the basic auth configuration for the admin/export surface
type BasicAuth struct {
	Users   map[string]string `yaml:"users"`
	Enabled bool              `yaml:"enabled"`
}

// Verifier holds the thin HTTP edge configuration (cmd/verifier)
type Verifier struct {
	APIServer APIServer `yaml:"api_server" validate:"required"`
	// SessionCookieAuthenticationKey and SessionStoreEncryptionKey key the
	// gorilla/sessions cookie store guarding the verifier's browser-facing
	// endpoints.
	SessionCookieAuthenticationKey string `yaml:"session_cookie_authentication_key" validate:"required"`
	SessionStoreEncryptionKey      string `yaml:"session_store_encryption_key" validate:"required"`

	// ExternalURL is the externally reachable base URL this verifier
	// instance is deployed at, used to build request_uri/response_uri and
	// the universal-link payload.
	ExternalURL string `yaml:"external_url" validate:"required"`

	// EphemeralIDSecret keys the HMAC used to mint and verify the
	// short-lived ephemeral ID embedded in universal-link/QR payloads.
	EphemeralIDSecret string `yaml:"ephemeral_id_secret" validate:"required"`

	// SigningKeyPath and SigningCertPath locate the RP's PEM-encoded private
	// key and its x509_san_dns certificate chain, used to sign Authorization
	// Request JWTs and populate their x5c header.
	SigningKeyPath  string `yaml:"signing_key_path" validate:"required"`
	SigningCertPath string `yaml:"signing_cert_path" validate:"required"`

	// ClientID is this RP's client_id, the DNS SAN its certificate must carry.
	ClientID string `yaml:"client_id" validate:"required"`

	// AllowInsecureReturnURL permits an http:// return_url_template during
	// development; production deployments must use https.
	AllowInsecureReturnURL bool `yaml:"allow_insecure_return_url"`

	// CleanupInterval is how often the background sweep runs.
	CleanupIntervalSeconds int64 `yaml:"cleanup_interval_seconds" default:"30"`

	// RetentionSeconds bounds how long a Done{Expired} record is kept
	// before the cleanup sweep removes it from the store entirely.
	RetentionSeconds int64 `yaml:"retention_seconds" default:"86400"`

	// MdocTrustAnchorsPath locates a PEM bundle of IACA root certificates
	// trusted for verifying an mdoc Authorization Response's issuer chain.
	MdocTrustAnchorsPath string `yaml:"mdoc_trust_anchors_path" validate:"required"`

	// AllowedOrigins lists the browser origins permitted to call the
	// session JSON endpoints cross-origin. Empty allows any origin without
	// credentials.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AdminGUIEnabled turns on the cookie-authenticated dashboard for
	// browsing use cases and downloading a session's disclosed-attributes
	// export, gated by APIServer.BasicAuth.Users as its login credentials.
	AdminGUIEnabled bool `yaml:"admin_gui_enabled"`
}

// UseCaseRegistry holds the statically configured disclosure use cases this
// verifier instance can run, keyed by use-case name.
type UseCaseRegistry struct {
	UseCases map[string]UseCase `yaml:"use_cases" validate:"omitempty"`
}

// UseCase describes a single pre-configured disclosure request: which
// attestation type(s) and claim paths it asks a holder to disclose.
type UseCase struct {
	DoctypeValue string   `yaml:"doctype_value"`
	VCTValues    []string `yaml:"vct_values"`
	ClaimPaths   []string `yaml:"claim_paths" validate:"required"`

	// ReturnURLPolicy constrains whether callers of new_session may supply a
	// return_url_template for this use case: "neither", "same_device",
	// "both".
	ReturnURLPolicy string `yaml:"return_url_policy" default:"neither" validate:"omitempty,oneof=neither same_device both"`

	// ShareOnError surfaces the redirect URI to the wallet even when
	// verification of the authorization response fails, so the holder's
	// browser can still be carried to the RP's (failure) landing page.
	ShareOnError bool `yaml:"share_on_error"`

	// EphemeralIDRequired gates request_uri retrieval behind a short-lived
	// HMAC ephemeral ID (see the verifier disclosure session's status/
	// get_request transition).
	EphemeralIDRequired bool `yaml:"ephemeral_id_required" default:"true"`

	// MaxAgeSeconds bounds how long a session may remain active (Created or
	// WaitingForResponse) before the cleanup task marks it Done{Expired}.
	MaxAgeSeconds int64 `yaml:"max_age_seconds" default:"300"`
}

// Cfg is the main configuration structure for this application
type Cfg struct {
	Common          Common          `yaml:"common"`
	Verifier        Verifier        `yaml:"verifier" validate:"omitempty"`
	UseCaseRegistry UseCaseRegistry `yaml:"use_case_registry" validate:"omitempty"`
}
