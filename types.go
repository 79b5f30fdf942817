package gokuma

// Wire shapes of the server's entities. Field names follow the server's
// JSON; collections are pushed as dictionaries keyed by numeric id.

type Monitor struct {
	ID            int    `json:"id,omitempty"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	URL           string `json:"url,omitempty"`
	Hostname      string `json:"hostname,omitempty"`
	Port          int    `json:"port,omitempty"`
	Method        string `json:"method,omitempty"`
	Interval      int    `json:"interval,omitempty"`
	RetryInterval int    `json:"retryInterval,omitempty"`
	MaxRetries    int    `json:"maxretries,omitempty"`
	Active        bool   `json:"active"`
	Tags          []Tag  `json:"tags,omitempty"`
}

type Tag struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type Notification struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	IsDefault bool   `json:"isDefault"`
	UserID    int    `json:"userId,omitempty"`
	Config    string `json:"config,omitempty"`
}

type StatusPage struct {
	ID          int    `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Published   bool   `json:"published"`
}

type Maintenance struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Strategy    string `json:"strategy,omitempty"`
	Active      bool   `json:"active"`
}

type Info struct {
	Version        string `json:"version"`
	LatestVersion  string `json:"latestVersion,omitempty"`
	PrimaryBaseURL string `json:"primaryBaseURL,omitempty"`
	ServerTimezone string `json:"serverTimezone,omitempty"`
	IsContainer    bool   `json:"isContainer,omitempty"`
	DBType         string `json:"dbType,omitempty"`
}

// ackEnvelope is the ok/msg response wrapper every acknowledged operation
// comes back in; operation-specific payload fields are folded in alongside.
type ackEnvelope struct {
	OK        bool     `json:"ok"`
	Msg       string   `json:"msg"`
	Token     string   `json:"token,omitempty"`
	MonitorID int      `json:"monitorID,omitempty"`
	Monitor   *Monitor `json:"monitor,omitempty"`
	Tags      []Tag    `json:"tags,omitempty"`
}

// loginRequest is the credentials object sent with the login call; the
// token field carries a 2FA token and stays empty otherwise.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Token    string `json:"token"`
}
