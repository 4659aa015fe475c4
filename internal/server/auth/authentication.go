package auth

// Authentication is the state of a request's credentials. It is either
// Provisional (extracted but not verified) or *Verified.
type Authentication interface {
	Authenticated() bool
	authentication()
}

// Provisional holds the credentials taken from the request headers.
type Provisional struct {
	Username string
	Token    string
}

func (Provisional) Authenticated() bool { return false }
func (Provisional) authentication()     {}

// Details describes the transport the credentials arrived on.
type Details struct {
	RemoteAddress string
	RequestID     string
}

// Verified is a fully authenticated request.
type Verified struct {
	principal   Principal
	authorities []string
	details     Details
	credentials *Provisional
}

// NewVerified builds a Verified authentication. A nil authorities slice
// is stored as an empty one.
func NewVerified(p Principal, authorities []string, d Details, credentials *Provisional) *Verified {
	if authorities == nil {
		authorities = []string{}
	}
	return &Verified{principal: p, authorities: authorities, details: d, credentials: credentials}
}

func (*Verified) Authenticated() bool { return true }
func (*Verified) authentication()     {}

func (v *Verified) Principal() Principal { return v.principal }

func (v *Verified) Authorities() []string { return v.authorities }

func (v *Verified) Details() Details { return v.details }

// Credentials returns the original credentials, or nil once erased.
func (v *Verified) Credentials() *Provisional { return v.credentials }

// EraseCredentials drops the token and claimed username.
func (v *Verified) EraseCredentials() {
	if v.credentials != nil {
		v.credentials.Token = ""
		v.credentials.Username = ""
	}
	v.credentials = nil
}
