package manifest

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
)

// MaxIDLength bounds application ids
const MaxIDLength = 64

var (
	idPattern      = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	wmClassPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	schemePattern  = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

	nonSlugChars    = regexp.MustCompile(`[^a-z0-9_-]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
	wordChars       = regexp.MustCompile(`[A-Za-z0-9]+`)
)

// ValidateID checks the application id slug grammar: lowercase
// alphanumeric plus hyphen/underscore, starts alphanumeric, at most
// MaxIDLength characters.
func ValidateID(id string) error {
	if id == "" {
		return invalid("id", "cannot be empty")
	}
	if len(id) > MaxIDLength {
		return invalid("id", "must be 64 characters or less")
	}
	if !idPattern.MatchString(id) {
		return invalid("id", "must start with a lowercase letter or digit and contain only lowercase letters, digits, hyphens and underscores")
	}
	return nil
}

// ValidateURL checks that a URL is absolute http or https with a host
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return invalid("url", "cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return invalid("url", "is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid("url", "must use http:// or https://")
	}
	if u.Host == "" {
		return invalid("url", "must include a hostname")
	}
	return nil
}

// ValidateWMClass checks the identifier-like window-manager class grammar
func ValidateWMClass(wmClass string) error {
	if wmClass == "" {
		return invalid("wm_class", "cannot be empty")
	}
	if !wmClassPattern.MatchString(wmClass) {
		return invalid("wm_class", "must start with a letter and contain only letters, digits, hyphens and underscores")
	}
	return nil
}

// ValidateScheme checks a custom URL scheme name
func ValidateScheme(scheme string) error {
	if scheme == "" {
		return errors.New(errors.ErrInvalidInput, "scheme cannot be empty")
	}
	if !schemePattern.MatchString(scheme) {
		return errors.Newf(errors.ErrInvalidInput,
			"invalid scheme %q: must start with a letter and contain only lowercase letters, digits, hyphens and underscores", scheme)
	}
	return nil
}

// GenerateID derives a valid application id from a display name
func GenerateID(name string) string {
	id := strings.ToLower(name)
	id = nonSlugChars.ReplaceAllString(id, "-")
	id = strings.Trim(id, "-")
	id = multipleHyphens.ReplaceAllString(id, "-")

	if len(id) > MaxIDLength {
		id = id[:MaxIDLength]
		id = strings.Trim(id, "-")
	}
	if id != "" && (id[0] == '_') {
		id = "app-" + id
	}
	if id == "" {
		id = "app"
	}
	return id
}

// GenerateWMClass derives a CamelCase window-manager class from a
// display name.
func GenerateWMClass(name string) string {
	words := wordChars.FindAllString(name, -1)

	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(strings.ToLower(w[1:]))
	}
	if b.Len() == 0 {
		return "App"
	}
	return b.String()
}

// ExtractNameFromURL derives a display name from a URL's hostname:
// the subdomain when one exists, otherwise the domain.
func ExtractNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		if words := wordChars.FindAllString(rawURL, -1); len(words) > 0 {
			return capitalize(words[0])
		}
		return "App"
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	parts := strings.Split(host, ".")
	return capitalize(parts[0])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
