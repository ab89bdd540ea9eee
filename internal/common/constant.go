package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound and outbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultRole is assigned when a registration request carries no role.
const DefaultRole = "User"

// AdminRole may list accounts by role.
const AdminRole = "Admin"
