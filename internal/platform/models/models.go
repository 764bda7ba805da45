package models

type Tenant struct {
	ID        string       `json:"id"`
	Slug      string       `json:"slug"`
	Name      string       `json:"name"`
	Domain    string       `json:"domain"`
	StorePath string       `json:"store_path"`
	Slack     *SlackConfig `json:"slack,omitempty"` // JSON column in DB
	CreatedAt int64        `json:"created_at"`
	UpdatedAt int64        `json:"updated_at"`
	DeletedAt *int64       `json:"deleted_at,omitempty"`
}

// SlackConfig is the tenant's outbound notification configuration. A nil
// config or an empty channel list means notifications are off for the tenant.
type SlackConfig struct {
	Channels []SlackChannel `json:"channels"`
}

type SlackChannel struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	HookURL string `json:"hookURL"`
	// Triggers is nil when the channel was saved without trigger
	// configuration; the dispatcher treats that as a misconfigured channel.
	Triggers *Triggers `json:"triggers,omitempty"`
}

// Triggers are independent per-category opt-ins. AllComments is an umbrella
// that fires for any classified category regardless of the other flags.
type Triggers struct {
	AllComments      bool `json:"allComments"`
	ReportedComments bool `json:"reportedComments"`
	PendingComments  bool `json:"pendingComments"`
	FeaturedComments bool `json:"featuredComments"`
}

type User struct {
	ID           string `json:"id"`
	TenantID     string `json:"tenant_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	LastLoginAt  *int64 `json:"last_login_at,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}
