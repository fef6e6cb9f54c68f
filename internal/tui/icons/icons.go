// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// nerdFontTerminals are TERM_PROGRAM or TERM values that usually ship a Nerd Font
var nerdFontTerminals = []string{"iterm.app", "alacritty", "wezterm", "kitty", "ghostty"}

// detect decides from the environment whether to draw Nerd Font glyphs.
// HRDESK_NERD_FONTS wins when set; unparseable values mean no.
func detect(getenv func(string) string) bool {
	if v := getenv("HRDESK_NERD_FONTS"); v != "" {
		on, err := strconv.ParseBool(v)
		return err == nil && on
	}
	if getenv("NERD_FONTS") == "1" {
		return true
	}
	terminal := strings.ToLower(getenv("TERM_PROGRAM") + " " + getenv("TERM"))
	return slices.ContainsFunc(nerdFontTerminals, func(t string) bool {
		return strings.Contains(terminal, t)
	})
}

// HasNerdFonts reports whether Nerd Font glyphs are used, decided once per process
var HasNerdFonts = sync.OnceValue(func() bool { return detect(os.Getenv) })

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// People and records
	User     = Icon{"󰀄", "●"} // nf-md-account
	Users    = Icon{"󰡉", "◎"} // nf-md-account_group
	Calendar = Icon{"󰃭", "▦"} // nf-md-calendar
	Clock    = Icon{"󰥔", "◷"} // nf-md-clock_outline
	Home     = Icon{"󰋜", "⌂"} // nf-md-home
	Lock     = Icon{"󰌾", "⚿"} // nf-md-lock

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Actions
	Logout = Icon{"󰍃", "⇥"} // nf-md-logout

	// Application
	App      = Icon{"󰃖", "◈"} // nf-md-briefcase
	Settings = Icon{"󰒓", "⚙"} // nf-md-cog
)

// ForPath returns the icon shown next to a screen in the navigation menu
func ForPath(path string) Icon {
	switch {
	case strings.HasSuffix(path, "/dashboard"):
		return Home
	case strings.HasSuffix(path, "/employees"):
		return Users
	case strings.Contains(path, "leave"):
		return Calendar
	case path == "/settings":
		return Settings
	case path == "/profile":
		return User
	case path == "/login":
		return Lock
	default:
		return Info
	}
}
