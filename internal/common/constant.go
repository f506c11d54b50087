package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// ResetConfirmationPhrase must be typed verbatim to confirm a full data reset.
const ResetConfirmationPhrase = "HAPUS SEMUA DATA"
