package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/telekom/mail-dispatcher/pkg/config"
	"github.com/telekom/mail-dispatcher/pkg/mail"
	"github.com/telekom/mail-dispatcher/pkg/tenant"
)

func WriteResultTable(w io.Writer, res mail.EmailCommunicationResult) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SUCCESS\tOUTCOME\tRECIPIENTS")
	_, _ = fmt.Fprintf(tw, "%v\t%s\t%s\n", res.Success, res.Outcome, orDash(strings.Join(res.To, ",")))
	_ = tw.Flush()
}

// WriteTenantTable lists tenants and their mail server override. Credentials
// are never printed; only whether a password is set.
func WriteTenantTable(w io.Writer, tenants []tenant.Definition) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tEMAIL_POLICY\tHOST\tPORT\tFROM\tAUTH")
	for i := range tenants {
		p := tenants[i].EmailPolicy()
		if p == nil {
			_, _ = fmt.Fprintf(tw, "%s\tno\t-\t-\t-\t-\n", tenants[i].ID)
			continue
		}
		port := "-"
		if p.Port > 0 {
			port = fmt.Sprintf("%d", p.Port)
		}
		auth := "none"
		if p.Username != "" {
			auth = p.Username
			if p.Password != "" {
				auth += ":****"
			}
		}
		_, _ = fmt.Fprintf(tw, "%s\tyes\t%s\t%s\t%s\t%s\n", tenants[i].ID, orDash(p.Host), port, orDash(p.From), auth)
	}
	_ = tw.Flush()
}

func WriteCibaTable(w io.Writer, p config.CibaProperties, ttl time.Duration) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SETTING\tVALUE")
	_, _ = fmt.Fprintf(tw, "maxTimeToLive\t%s (%s)\n", p.MaxTimeToLiveInSeconds, ttl)
	m := p.Verification.Mail
	_, _ = fmt.Fprintf(tw, "mail.subject\t%s\n", m.Subject)
	_, _ = fmt.Fprintf(tw, "mail.text\t%s\n", m.Text)
	_, _ = fmt.Fprintf(tw, "mail.attributeName\t%s\n", m.AttributeName)
	_, _ = fmt.Fprintf(tw, "mail.from\t%s\n", orDash(m.From))
	_, _ = fmt.Fprintf(tw, "mail.html\t%v\n", m.HTML)
	_, _ = fmt.Fprintf(tw, "mail.priority\t%d\n", m.Priority)
	s := p.Verification.SMS
	_, _ = fmt.Fprintf(tw, "sms.text\t%s\n", s.Text)
	_, _ = fmt.Fprintf(tw, "sms.attributeName\t%s\n", s.AttributeName)
	_, _ = fmt.Fprintf(tw, "sms.from\t%s\n", orDash(s.From))
	_ = tw.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
