package netx

// Backend API paths.
const (
	PathLogin            = "/api/auth/login"
	PathRegister         = "/api/auth/register"
	PathMe               = "/api/auth/me"
	PathMigrateGuestData = "/api/migrate-guest-data"
)

// URLBuilder composes absolute endpoint URLs from a base resolved once at
// startup.
type URLBuilder struct {
	base string
}

func NewURLBuilder(base string) URLBuilder {
	return URLBuilder{base: base}
}

// URL appends path to the base verbatim. Slashes are not normalized.
func (b URLBuilder) URL(path string) string {
	return b.base + path
}

func (b URLBuilder) Base() string {
	return b.base
}
