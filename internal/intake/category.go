package intake

import "strings"

// Category classifies a support ticket. The set is closed: unrecognized
// values collapse to CategoryGeneral.
type Category string

const (
	CategoryCommission  Category = "commission"
	CategoryTechnical   Category = "technical"
	CategoryAccount     Category = "account"
	CategoryCopyTrading Category = "copy_trading"
	CategoryGeneral     Category = "general"
)

// ParseCategory normalizes a category token to a known Category.
// The token is lower-cased before lookup; unknown values map to general.
func ParseCategory(token string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(token))) {
	case CategoryCommission:
		return CategoryCommission
	case CategoryTechnical:
		return CategoryTechnical
	case CategoryAccount:
		return CategoryAccount
	case CategoryCopyTrading:
		return CategoryCopyTrading
	default:
		return CategoryGeneral
	}
}

// Label returns the human-readable category name used in ticket reports.
func (c Category) Label() string {
	switch c {
	case CategoryCommission:
		return "Commission Issue"
	case CategoryTechnical:
		return "Technical Issue"
	case CategoryAccount:
		return "Account Issue"
	case CategoryCopyTrading:
		return "Copy Trading Issue"
	default:
		return "General Support"
	}
}

// questionCatalog maps each category to its fixed, ordered qualification
// questions. Every category must keep at least one question; general is the
// fallback list and always has exactly one.
var questionCatalog = map[Category][]string{
	CategoryCommission: {
		"Which account or affiliate link is this about?",
		"What time period are the missing or incorrect commissions from?",
		"What did you expect to see, and what do you see instead?",
	},
	CategoryTechnical: {
		"What were you trying to do when the problem happened?",
		"What error message or unexpected behavior did you see?",
		"Which device and browser or app are you using?",
	},
	CategoryAccount: {
		"What is the email address on your account?",
		"What account change or issue do you need help with?",
	},
	CategoryCopyTrading: {
		"Which strategy or master account are you copying?",
		"What issue are you seeing with your copy setup?",
	},
	CategoryGeneral: {
		"Please describe your issue in as much detail as you can.",
	},
}

// Questions returns a copy of the qualification questions for the category.
func (c Category) Questions() []string {
	qs := questionCatalog[c]
	out := make([]string, len(qs))
	copy(out, qs)
	return out
}
