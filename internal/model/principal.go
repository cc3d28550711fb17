package model

// AccountStatus mirrors the lifecycle states reported by the user
// directory service. Only ACTIVE accounts may authenticate through the
// external-id flow; WITHDRAWN accounts are rejected everywhere.
type AccountStatus string

const (
	StatusActive    AccountStatus = "ACTIVE"
	StatusInactive  AccountStatus = "INACTIVE"
	StatusDormant   AccountStatus = "DORMANT"
	StatusWithdrawn AccountStatus = "WITHDRAWN"
)

// Principal is the authenticated identity resolved from the user
// directory. It only lives in memory for the duration of a request and
// is never persisted by this service.
type Principal struct {
	ID     int64
	Roles  []string
	Status AccountStatus
}

// TokenPair carries a freshly issued access/refresh token pair. The
// access token includes the "Bearer " transport prefix, the refresh
// token does not.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserInfo is the identity view returned by /auth/info, derived purely
// from access token claims.
type UserInfo struct {
	ID    int64    `json:"id"`
	Roles []string `json:"roles"`
}
