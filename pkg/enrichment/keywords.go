package enrichment

// domainRule associates a domain with its keyword set. Order matters: when two
// domains tie on match count, the earlier one wins.
type domainRule struct {
	domain   string
	keywords []string
}

// DomainUnknown is returned when no domain keyword matches.
const DomainUnknown = "Unknown"

var domainRules = []domainRule{
	{"Sales", []string{"lead", "crm", "deal", "pipeline", "prospect", "quote"}},
	{"Marketing", []string{"campaign", "newsletter", "marketing", "social", "seo", "subscriber"}},
	{"Finance", []string{"invoice", "payment", "billing", "expense", "payout", "refund"}},
	{"Support", []string{"ticket", "support", "helpdesk", "escalation", "faq"}},
	{"HR", []string{"onboarding", "recruit", "hiring", "payroll", "employee", "candidate"}},
	{"Operations", []string{"inventory", "order", "shipping", "logistics", "procurement", "fulfillment"}},
	{"Engineering", []string{"deploy", "incident", "monitoring", "backup", "pipeline build", "release"}},
	{"Data", []string{"report", "etl", "analytics", "dashboard", "export", "import"}},
}

// systemRule maps a lower-case name keyword to a vendor's canonical display
// name. Scanned in order; each vendor is reported at most once.
type systemRule struct {
	keyword string
	display string
}

var systemRules = []systemRule{
	{"slack", "Slack"},
	{"notion", "Notion"},
	{"airtable", "Airtable"},
	{"stripe", "Stripe"},
	{"gmail", "Gmail"},
	{"sheets", "Google Sheets"},
	{"hubspot", "HubSpot"},
	{"salesforce", "Salesforce"},
	{"jira", "Jira"},
	{"github", "GitHub"},
	{"discord", "Discord"},
	{"telegram", "Telegram"},
	{"shopify", "Shopify"},
	{"mailchimp", "Mailchimp"},
	{"zendesk", "Zendesk"},
	{"twilio", "Twilio"},
}
