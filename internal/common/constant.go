package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the user's
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultVersionSettingKey is the settings row holding the configured
// default version code.
const DefaultVersionSettingKey = "default_version"
