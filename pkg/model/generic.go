package model

// IdentitySchema names the jurisdiction-specific identity schema a set of
// disclosed claims was issued against, e.g. which PID profile to validate a
// holder's claims with before they are matched against a use case.
type IdentitySchema struct {
	Name    string `json:"name" bson:"name"`
	Version string `json:"version" bson:"version"`
}

// Identity is the subset of disclosed holder claims that every attestation
// match is validated against regardless of credential format.
type Identity struct {
	Schema     *IdentitySchema `json:"schema" bson:"schema" validate:"required"`
	GivenName  string          `json:"given_name,omitempty" bson:"given_name"`
	FamilyName string          `json:"family_name,omitempty" bson:"family_name"`
	BirthDate  string          `json:"birth_date,omitempty" bson:"birth_date" validate:"required,datetime=2006-01-02"`
}

// MetaData describes a disclosed document's provenance and, optionally, a
// JSON Schema reference the document's claims should be validated against.
type MetaData struct {
	DocumentType              string `json:"document_type,omitempty" bson:"document_type"`
	DocumentDataValidationRef string `json:"document_data_validation_ref,omitempty" bson:"document_data_validation_ref"`
}

// CompleteDocument pairs a disclosed document's claims with its metadata,
// the unit validated by helpers.ValidateDocumentData.
type CompleteDocument struct {
	Meta         *MetaData `json:"meta" bson:"meta" validate:"required"`
	DocumentData any       `json:"document_data" bson:"document_data"`
}
