package classify

// InstitutionRule ties a central bank to the tokens that identify it and the
// officials who speak for it. Table order is the tie-break when keyword lists
// of several institutions hit: the first match wins. This is a deliberate
// priority rule, not a scoring system.
type InstitutionRule struct {
	Name      string
	Code      string
	Keywords  []string
	Officials []string
}

// DefaultInstitutions covers the G8 central banks tracked by the timeline.
// Keywords are matched case-insensitively as substrings, so the official
// surnames below double as institution triggers.
func DefaultInstitutions() []InstitutionRule {
	return []InstitutionRule{
		{
			Name:      "Federal Reserve",
			Code:      "USD",
			Keywords:  []string{"federal reserve", "fomc", "fed"},
			Officials: []string{"Powell", "Jefferson", "Waller", "Williams", "Bowman", "Barr", "Cook", "Kugler", "Goolsbee", "Musalem", "Schmid"},
		},
		{
			Name:      "European Central Bank",
			Code:      "EUR",
			Keywords:  []string{"european central bank", "ecb"},
			Officials: []string{"Lagarde", "de Guindos", "Lane", "Schnabel", "Cipollone", "Elderson"},
		},
		{
			Name:      "Bank of England",
			Code:      "GBP",
			Keywords:  []string{"bank of england", "boe", "mpc"},
			Officials: []string{"Bailey", "Ramsden", "Pill", "Mann", "Dhingra", "Greene", "Lombardelli"},
		},
		{
			Name:      "Bank of Japan",
			Code:      "JPY",
			Keywords:  []string{"bank of japan", "boj"},
			Officials: []string{"Ueda", "Himino", "Uchida", "Nakamura", "Takata"},
		},
		{
			Name:      "Swiss National Bank",
			Code:      "CHF",
			Keywords:  []string{"swiss national bank", "snb"},
			Officials: []string{"Schlegel", "Martin", "Tschudin"},
		},
		{
			Name:      "Bank of Canada",
			Code:      "CAD",
			Keywords:  []string{"bank of canada", "boc"},
			Officials: []string{"Macklem", "Rogers", "Kozicki", "Gravelle"},
		},
		{
			Name:      "Reserve Bank of Australia",
			Code:      "AUD",
			Keywords:  []string{"reserve bank of australia", "rba"},
			Officials: []string{"Bullock", "Hauser", "Hunter", "Kent"},
		},
		{
			Name:      "Reserve Bank of New Zealand",
			Code:      "NZD",
			Keywords:  []string{"reserve bank of new zealand", "rbnz"},
			Officials: []string{"Hawkesby", "Conway", "Silk"},
		},
	}
}

// Content-type vocabulary, checked in priority order: press-conference and
// rate-decision terms first, then speech terms.
var (
	pressConferenceTerms = []string{
		"press conference",
		"rate decision",
		"monetary policy decision",
		"policy decision",
		"q&a",
	}

	speechTerms = []string{
		"speech",
		"remarks",
		"testimony",
		"address",
		"statement",
	}

	// quoteTerms accept a named-speaker item even without explicit
	// speech/press vocabulary ("Powell said ...").
	quoteTerms = []string{
		"said",
		"says",
		"comments",
		"commented",
		"tells",
	}

	// exclusionTerms suppress routine market/data releases that merely
	// mention an institution in passing. An explicit speech or press keyword
	// overrides the exclusion.
	exclusionTerms = []string{
		"stock",
		"futures",
		"gdp",
		"retail sales",
		"earnings",
		"shares",
		"nonfarm payrolls",
		"ipo",
		"etf",
	}
)
