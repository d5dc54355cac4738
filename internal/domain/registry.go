package domain

// Domains is the fixed registry of ticket categories. Tickets can only be
// filed under one of these; the order is the order shown in the intake panel.
var Domains = []string{
	"Cryptography",
	"Reverse engineering",
	"Web",
	"Forensics",
	"OSINT",
	"PWN",
	"MISC",
}

// ValidDomain reports whether name is a registered category (case-sensitive).
func ValidDomain(name string) bool {
	for _, d := range Domains {
		if d == name {
			return true
		}
	}
	return false
}
