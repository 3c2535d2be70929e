package render

import (
	"fmt"
	"strings"

	"github.com/pwa-forge/pwa-forge/pkg/manifest"
)

var defaultCategories = []string{"Network", "WebBrowser"}

// DesktopEntry renders the freedesktop launcher entry for one
// application.
func DesktopEntry(m *manifest.Manifest, wrapperPath, iconPath string) string {
	icon := iconPath
	if icon == "" {
		icon = FallbackIcon
	}
	comment := m.Comment
	if comment == "" {
		comment = fmt.Sprintf("%s (%s)", m.Name, m.URL)
	}

	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Version=1.0\n")
	fmt.Fprintf(&b, "Name=%s\n", m.Name)
	fmt.Fprintf(&b, "Comment=%s\n", comment)
	fmt.Fprintf(&b, "Exec=%s %%U\n", wrapperPath)
	fmt.Fprintf(&b, "Icon=%s\n", icon)
	b.WriteString("Terminal=false\n")
	fmt.Fprintf(&b, "Categories=%s\n", joinCategories(m.Categories))
	fmt.Fprintf(&b, "StartupWMClass=%s\n", m.WMClass)
	b.WriteString("StartupNotify=true\n")
	return b.String()
}

// joinCategories renders the Categories value with the trailing
// semicolon the desktop entry spec requires.
func joinCategories(categories []string) string {
	if len(categories) == 0 {
		categories = defaultCategories
	}
	return strings.Join(categories, ";") + ";"
}
