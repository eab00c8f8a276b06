package holdersession

import (
	"errors"
	"fmt"

	"walletdisclosure/pkg/attestation"
)

// ErrDisclosureUriSourceMismatch is returned by Start when the session_type
// carried by the request does not match what uri_source implies (a
// universal link claiming cross_device, or a QR code claiming same_device).
var ErrDisclosureUriSourceMismatch = errors.New("holdersession: session_type does not match uri_source")

// ErrMultipleCandidates is returned by Start when the attestation matcher
// finds more than one satisfying candidate for some requested doc_type — the
// fatal path the matcher itself leaves to its caller.
type ErrMultipleCandidates = attestation.ErrMultipleCandidates

// EncryptionError reports that the request or response could not be
// decrypted/encrypted under the negotiated session keys.
type EncryptionError struct {
	Cause error
}

func (e *EncryptionError) Error() string { return fmt.Sprintf("holdersession: encryption error: %v", e.Cause) }
func (e *EncryptionError) Unwrap() error { return e.Cause }

// DecodingError reports that a message could not be parsed (malformed CBOR,
// JSON or JWS).
type DecodingError struct {
	Cause error
}

func (e *DecodingError) Error() string { return fmt.Sprintf("holdersession: decoding error: %v", e.Cause) }
func (e *DecodingError) Unwrap() error { return e.Cause }

// Termination reports a pre-disclosure failure that ends the session without
// having shared any attributes: reader-auth rejection, trust-anchor denial,
// or any other failure discovered before disclose() was called.
type Termination struct {
	Cause error
}

func (e *Termination) Error() string { return fmt.Sprintf("holdersession: terminated: %v", e.Cause) }
func (e *Termination) Unwrap() error { return e.Cause }

// DisclosureError reports a failure discovered after disclose() has already
// sent the response: DataShared is always true, since the holder cannot take
// back what it already transmitted.
type DisclosureError struct {
	DataShared bool
	Cause      error
}

func (e *DisclosureError) Error() string {
	return fmt.Sprintf("holdersession: disclosure error (data_shared=%t): %v", e.DataShared, e.Cause)
}
func (e *DisclosureError) Unwrap() error { return e.Cause }

// ErrNoRetrievalEndpoint is returned by the ISO profile when the reader
// engagement carries no web retrieval endpoint to establish a session
// against.
var ErrNoRetrievalEndpoint = errors.New("holdersession: reader engagement carries no retrieval endpoint")

// ErrUnsupportedFormat is returned when a credential query names a format
// this session cannot produce a presentation for.
var ErrUnsupportedFormat = errors.New("holdersession: unsupported credential format")
