package domain

type (
	Email          = string
	Username       = string
	Password       = string
	PublicKey      = string
	EncryptedBody  = string
	HashedPassword = string
)

// MailDomain is appended to a username to form the derived email.
const MailDomain = "qmail.co.in"

// DerivedEmail returns the canonical address of username on domain.
func DerivedEmail(username Username, domain string) Email {
	return username + "@" + domain
}
