package mail

import (
	"fmt"
	netmail "net/mail"

	"github.com/go-playground/validator/v10"
)

var addressValidator = validator.New()

// validateAddresses checks every address on m. Display names are allowed
// ("Jane <jane@example.com>"); the address part must be a valid email.
func validateAddresses(m *Message) error {
	if err := validateAddress("From", m.From); err != nil {
		return err
	}
	for _, group := range []struct {
		field string
		addrs []string
	}{{"To", m.To}, {"Cc", m.CC}, {"Bcc", m.BCC}} {
		for _, addr := range group.addrs {
			if err := validateAddress(group.field, addr); err != nil {
				return err
			}
		}
	}
	if m.ReplyTo != "" {
		return validateAddress("Reply-To", m.ReplyTo)
	}
	return nil
}

func validateAddress(field, addr string) error {
	parsed, err := netmail.ParseAddress(addr)
	if err != nil {
		return fmt.Errorf("invalid %s address %q: %w", field, addr, err)
	}
	if err := addressValidator.Var(parsed.Address, "required,email"); err != nil {
		return fmt.Errorf("invalid %s address %q: %w", field, addr, err)
	}
	return nil
}
