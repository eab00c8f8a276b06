package openid4vci

// Jwk is a JSON Web Key as carried in proof-of-possession headers and key
// attestations across the OpenID4VCI credential request flow.
type Jwk struct {
	Kty    string   `json:"kty,omitempty"`
	Crv    string   `json:"crv,omitempty"`
	X      string   `json:"x,omitempty"`
	Y      string   `json:"y,omitempty"`
	N      string   `json:"n,omitempty"`
	E      string   `json:"e,omitempty"`
	Kid    string   `json:"kid,omitempty"`
	Use    string   `json:"use,omitempty"`
	Alg    string   `json:"alg,omitempty"`
	KeyOps []string `json:"key_ops,omitempty"`
	Ext    bool     `json:"ext,omitempty"`
}
