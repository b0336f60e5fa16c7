package dat

import (
	"regexp"
	"strconv"
	"strings"
)

// Regular expressions for the No-Intro / GoodTools naming conventions.
var (
	regionRegex      = regexp.MustCompile(`\((USA|Europe|Japan|World|Germany|France|Brazil|Australia|Korea|China|Taiwan|Spain|Italy|Netherlands|Sweden|Norway|Denmark|Finland|UK|Canada|Asia|Unknown)\)`)
	languageRegex    = regexp.MustCompile(`\((En|Fr|De|Ja|Es|It|Nl|Pt|Sv|No|Da|Fi|Zh|Ko|Pl|Ru|M\d+(?:,[A-Za-z]{2,3})*)\)`)
	protoRegex       = regexp.MustCompile(`\((Proto|Prototype|Sample)\)`)
	betaRegex        = regexp.MustCompile(`\((Beta)\)`)
	demoRegex        = regexp.MustCompile(`\((Demo|Kiosk)\)`)
	unlicensedRegex  = regexp.MustCompile(`\((Unl|Unlicensed)\)`)
	discRegex        = regexp.MustCompile(`\((Disc|Disk|Side)\s*([\w\d]+)\)`)
	translationRegex = regexp.MustCompile(`\[T\+([A-Za-z]{2,3})\]`)
	verifiedRegex    = regexp.MustCompile(`\[!\]`)
	pirateRegex      = regexp.MustCompile(`\[p\]`)
	hackRegex        = regexp.MustCompile(`\[h\]`)
	trainerRegex     = regexp.MustCompile(`\[t\]`)
	overdumpRegex    = regexp.MustCompile(`\[o\]`)
	majorNameRegex   = regexp.MustCompile(`^([^(]+)`)
)

// regionLanguageDefaults maps a region to its default language when the
// game name carries no explicit language token.
var regionLanguageDefaults = map[string]string{
	"USA":         "En",
	"Europe":      "En",
	"Japan":       "Ja",
	"Germany":     "De",
	"France":      "Fr",
	"Spain":       "Es",
	"Italy":       "It",
	"Netherlands": "Nl",
	"Brazil":      "Pt",
	"Korea":       "Ko",
	"China":       "Zh",
	"Taiwan":      "Zh",
	"UK":          "En",
	"Canada":      "En",
	"Australia":   "En",
	"World":       "En",
	"Asia":        "En",
}

// versionPattern maps a release marker to its ordinal.
type versionPattern struct {
	re      *regexp.Regexp
	ordinal int // 0 means take the captured number
}

var versionPatterns = []versionPattern{
	{re: regexp.MustCompile(`(?i)\(Rev\s*A\)`), ordinal: 1},
	{re: regexp.MustCompile(`(?i)\(Rev\s*B\)`), ordinal: 2},
	{re: regexp.MustCompile(`(?i)\(Rev\s*C\)`), ordinal: 3},
	{re: regexp.MustCompile(`(?i)\(Rev\s*D\)`), ordinal: 4},
	{re: regexp.MustCompile(`(?i)\(Rev\s*(\d+)\)`)},
	{re: regexp.MustCompile(`(?i)\(v1\.(\d+)\)`)},
	{re: regexp.MustCompile(`(?i)\(PRG(\d+)\)`)},
	{re: regexp.MustCompile(`(?i)\[a\]`), ordinal: 1},
	{re: regexp.MustCompile(`(?i)\[b\]`), ordinal: 2},
	{re: regexp.MustCompile(`(?i)\[c\]`), ordinal: 3},
	{re: regexp.MustCompile(`(?i)\(Alt\s*(\d+)\)`)},
}

// parseGameName extracts the attributes encoded in a DAT game name.
func parseGameName(name string) Game {
	var g Game

	if m := majorNameRegex.FindStringSubmatch(name); m != nil {
		g.MajorName = strings.TrimSpace(m[1])
	} else {
		g.MajorName = name
	}

	if m := regionRegex.FindStringSubmatch(name); m != nil {
		g.Region = m[1]
	}

	if m := languageRegex.FindStringSubmatch(name); m != nil {
		g.Languages = m[1]
	} else {
		g.Languages = defaultLanguage(name, g.Region)
	}

	g.IsBeta = betaRegex.MatchString(name)
	g.IsDemo = demoRegex.MatchString(name)
	g.IsProto = protoRegex.MatchString(name)
	g.IsUnlicensed = unlicensedRegex.MatchString(name)
	g.IsTranslation = translationRegex.MatchString(name)
	g.IsVerified = verifiedRegex.MatchString(name)
	g.IsPirate = pirateRegex.MatchString(name)
	g.IsHack = hackRegex.MatchString(name)
	g.IsTrainer = trainerRegex.MatchString(name)
	g.IsOverdump = overdumpRegex.MatchString(name)
	g.IsModified = g.IsPirate || g.IsHack || g.IsTrainer

	g.ReleaseVersion = parseReleaseVersion(name)

	if m := discRegex.FindStringSubmatch(name); m != nil {
		g.DiscInfo = m[1] + " " + m[2]
	}

	return g
}

// defaultLanguage infers a language when the name has no explicit token.
func defaultLanguage(name, region string) string {
	if lang, ok := regionLanguageDefaults[region]; ok {
		return lang
	}
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "usa", "america"):
		return "En"
	case containsAny(lower, "japan", "jap"):
		return "Ja"
	case containsAny(lower, "europe", "eur"):
		return "En"
	default:
		return "En"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseReleaseVersion returns the release ordinal encoded in the name, or
// 0 for a base release.
func parseReleaseVersion(name string) int {
	for _, p := range versionPatterns {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if p.ordinal > 0 {
			return p.ordinal
		}
		if len(m) > 1 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	return 0
}
