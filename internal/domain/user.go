package domain

// Membership tiers, ordered by rank.
const (
	TierBasic    = "basic"
	TierVIP      = "vip"
	TierSuperVIP = "super_vip"
)

// UserProfile represents the authenticated user's identity record.
// JSON field names follow the storefront backend contract (camelCase).
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Tier      string `json:"tier"`
	CreatedAt string `json:"createdAt"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Points    int    `json:"points,omitempty"`
}

// ProfileUpdate carries the fields a profile update may change.
// Nil pointers mean "leave as is".
type ProfileUpdate struct {
	FullName  *string `json:"fullName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Location  *string `json:"location,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// AuthTokens holds an access/refresh token pair as issued by the auth backend.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// Session couples the user profile with its token pair. The two always
// transition together: a non-nil user implies non-nil tokens and vice versa.
type Session struct {
	User   *UserProfile `json:"user"`
	Tokens *AuthTokens  `json:"tokens"`
}

func tierRank(tier string) int {
	switch tier {
	case TierBasic:
		return 0
	case TierVIP:
		return 1
	case TierSuperVIP:
		return 2
	default:
		return -1
	}
}

// IsValidTier checks if a tier string is one of the known membership tiers.
func IsValidTier(tier string) bool {
	return tierRank(tier) >= 0
}

// TierAtLeast reports whether tier ranks at or above min in the
// basic < vip < super_vip ordering. Unknown tiers rank below basic.
func TierAtLeast(tier, min string) bool {
	return tierRank(tier) >= tierRank(min) && tierRank(min) >= 0
}

// Apply merges the non-nil fields of the update into the profile.
func (u *UserProfile) Apply(update ProfileUpdate) {
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.Location != nil {
		u.Location = *update.Location
	}
	if update.AvatarURL != nil {
		u.AvatarURL = *update.AvatarURL
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
}

// Clone returns a copy of the session with its own user and token values.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := &Session{}
	if s.User != nil {
		user := *s.User
		clone.User = &user
	}
	if s.Tokens != nil {
		tokens := *s.Tokens
		clone.Tokens = &tokens
	}
	return clone
}
