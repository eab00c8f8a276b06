package holdersession

import "crypto"

// KeyFactory resolves the holder-bound signer for one matched candidate,
// keyed by Candidate.ID (see pkg/attestation.Candidate). It is
// crypto.Signer-native rather than pkg/signing.Signer-native: both
// mdoc.DeviceAuthBuilder.WithDeviceKey and sdjwt.SignKeyBinding/BuildPoA
// take a crypto.Signer directly and hash their payload internally, so
// wrapping pkg/signing.Signer (which hashes before signing) here would
// double-hash everything it touches.
type KeyFactory interface {
	SignerFor(candidateID string) (crypto.Signer, error)
}

// KeyFactoryFunc adapts a plain function to KeyFactory.
type KeyFactoryFunc func(candidateID string) (crypto.Signer, error)

func (f KeyFactoryFunc) SignerFor(candidateID string) (crypto.Signer, error) { return f(candidateID) }
