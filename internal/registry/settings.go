package registry

import "golang.org/x/text/language"

// Registry keys read through the registry API.
const (
	KeyButtonAssign    = "/CONFIG/SYSTEM/button_assign"
	KeyLanguage        = "/CONFIG/SYSTEM/language"
	KeyDebugMode       = "/CONFIG/SYSTEM/debug_mode"
	KeySuspendInterval = "/CONFIG/POWER_SAVING/suspend_interval"
	KeyLoginID         = "/CONFIG/NP/login_id"
	KeyCountry         = "/CONFIG/NP/country"
)

// UnreadInt is the value reported for an int key that could not be read.
const UnreadInt = -1

// unknownLayout is the label of unmapped setting values.
const unknownLayout = "Unknown layout!?"

// ButtonAssign returns the label of the button_assign setting.
func ButtonAssign(v int) string {
	switch v {
	case 0:
		return "O = Enter"
	case 1:
		return "X = Enter"
	default:
		return unknownLayout
	}
}

// LanguageSetting is a decoded system language value.
type LanguageSetting struct {
	Code  int
	Label string
	Tag   language.Tag
}

// languageEntry pairs a display label with its BCP 47 tag.
type languageEntry struct {
	label string
	tag   language.Tag
}

// languages is indexed by the registry language value.
var languages = []languageEntry{
	{"Japanese", language.Japanese},
	{"English US", language.AmericanEnglish},
	{"French", language.French},
	{"Spanish", language.Spanish},
	{"German", language.German},
	{"Italian", language.Italian},
	{"Dutch", language.Dutch},
	{"Portuguese", language.EuropeanPortuguese},
	{"Russian", language.Russian},
	{"Korean", language.Korean},
	{"Traditional Chinese", language.TraditionalChinese},
	{"Simplified Chinese", language.SimplifiedChinese},
	{"Finnish", language.Finnish},
	{"Swedish", language.Swedish},
	{"Danish", language.Danish},
	{"Norwegian", language.Norwegian},
	{"Polish", language.Polish},
	{"Brazilian Portuguese", language.BrazilianPortuguese},
	{"English UK", language.BritishEnglish},
}

// Language decodes the language setting.
// Unknown values get the "Unknown layout!?" label and language.Und.
func Language(v int) LanguageSetting {
	if v < 0 || v >= len(languages) {
		return LanguageSetting{Code: v, Label: unknownLayout, Tag: language.Und}
	}
	entry := languages[v]
	return LanguageSetting{Code: v, Label: entry.label, Tag: entry.tag}
}
