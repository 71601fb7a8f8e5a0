package rules

// Default rule tables — compiled once at startup, never during a request.
// Pattern order is load-bearing: PII categories accumulate in this order and
// injection/toxicity/off-topic checks stop at the first match.

var defaultPII = []Rule{
	newRule(CategoryEmail, "PII: email address",
		`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	newRule(CategoryPhone, "PII: phone number",
		`(\+?1?[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	newRule(CategorySSN, "PII: Social Security Number",
		`\b\d{3}-?\d{2}-?\d{4}\b`),
	newRule(CategoryCreditCard, "PII: credit card number",
		`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
}

var defaultInjection = []Rule{
	newRule(CategoryInjection, "override: ignore previous instructions",
		`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+(instructions?|prompts?)`),
	newRule(CategoryInjection, "override: disregard previous",
		`(?i)disregard\s+(all\s+)?(previous|prior|above)`),
	newRule(CategoryInjection, "override: forget instructions",
		`(?i)forget\s+(everything|all|your)\s+(instructions?|rules?)`),
	newRule(CategoryInjection, "identity override: you are now",
		`(?i)you\s+are\s+now\s+(a|an)\s+`),
	newRule(CategoryInjection, "identity override: pretend",
		`(?i)pretend\s+(to\s+be|you\s+are)`),
	newRule(CategoryInjection, "identity override: act as",
		`(?i)act\s+as\s+(if|a|an)`),
	newRule(CategoryInjection, "delimiter injection: system prefix",
		`(?i)system\s*:\s*`),
	newRule(CategoryInjection, "delimiter injection: system tag",
		`(?i)<\s*system\s*>`),
	newRule(CategoryInjection, "explicit jailbreak",
		`(?i)jailbreak`),
	newRule(CategoryInjection, "explicit bypass attempt",
		`(?i)bypass\s+(safety|filter|guard)`),
}

var defaultToxicity = []Rule{
	newRule(CategoryToxicity, "toxicity: violent language",
		`(?i)\b(hate|kill|attack|destroy|murder)\b`),
	newRule(CategoryToxicity, "toxicity: insult",
		`(?i)\b(stupid|idiot|dumb|moron)\b`),
	newRule(CategoryToxicity, "toxicity: discriminatory language",
		`(?i)\b(racist|sexist|discriminat)\w*\b`),
}

var defaultOffTopic = []Rule{
	newRule(CategoryOffTopic, "off-topic: politics",
		`(?i)\b(politics|politician|election|vote)\b`),
	newRule(CategoryOffTopic, "off-topic: religion",
		`(?i)\b(religion|religious|church|mosque)\b`),
	newRule(CategoryOffTopic, "off-topic: finance",
		`(?i)\b(invest|stock|crypto|bitcoin)\b`),
}

var defaultSeverities = map[Category]Severity{
	CategoryEmail:         SeverityBlock,
	CategoryPhone:         SeverityBlock,
	CategorySSN:           SeverityBlock,
	CategoryCreditCard:    SeverityBlock,
	CategoryInjection:     SeverityBlock,
	CategoryToxicity:      SeverityBlock,
	CategoryHallucination: SeverityWarn,
	CategoryOffTopic:      SeverityWarn,
}

// DefaultTable returns the built-in rule table with default severities.
func DefaultTable() *Table {
	return &Table{
		pii:        defaultPII,
		injection:  defaultInjection,
		toxicity:   defaultToxicity,
		offTopic:   defaultOffTopic,
		severities: defaultSeverities,
	}
}
