package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/telekom/mail-dispatcher/pkg/config"
	"github.com/telekom/mail-dispatcher/pkg/mail"
	"github.com/telekom/mail-dispatcher/pkg/mailctl/output"
)

func NewSendCommand() *cobra.Command {
	var (
		req          mail.EmailMessageRequest
		props        config.EmailProperties
		markdown     bool
		sanitizeHTML bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a single email through the dispatcher",
		Example: `  mailctl send --to user@example.com --body "Your code is 123456" --subject mail.subject.otp
  mailctl send --to user@example.com --body "<p>hi</p>" --html --tenant acme -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if len(req.To) == 0 {
				return errors.New("at least one --to address is required")
			}
			format, err := rt.OutputFormat()
			if err != nil {
				return err
			}
			c, err := rt.Components()
			if err != nil {
				return err
			}

			if markdown {
				c.Dispatcher.WithCustomizers(mail.MarkdownBody())
			}
			if sanitizeHTML {
				c.Dispatcher.WithCustomizers(mail.SanitizeHTML(nil))
			}

			req.Properties = props
			res, sendErr := c.Dispatcher.Send(cmd.Context(), req)
			if err := writeResult(rt, format, res); err != nil {
				return err
			}
			return sendErr
		},
	}

	cmd.Flags().StringSliceVar(&req.To, "to", nil, "Recipient address (repeatable)")
	cmd.Flags().StringVar(&req.Body, "body", "", "Message body")
	cmd.Flags().StringVar(&req.Tenant, "tenant", "", "Tenant whose communication policy applies")
	cmd.Flags().StringVar(&req.Locale, "locale", "", "Locale used to resolve the subject key")
	cmd.Flags().StringVar(&props.Subject, "subject", "", "Subject text or message key")
	cmd.Flags().StringVar(&props.From, "from", "", "Sender address (a tenant policy sender takes precedence)")
	cmd.Flags().StringVar(&props.ReplyTo, "reply-to", "", "Reply-To address")
	cmd.Flags().StringSliceVar(&props.CC, "cc", nil, "Carbon copy address (repeatable)")
	cmd.Flags().StringSliceVar(&props.BCC, "bcc", nil, "Blind carbon copy address (repeatable)")
	cmd.Flags().BoolVar(&props.HTML, "html", false, "Send the body as text/html")
	cmd.Flags().IntVar(&props.Priority, "priority", 0, "X-Priority header value (1 highest, 5 lowest)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render a plain-text body as Markdown into HTML")
	cmd.Flags().BoolVar(&sanitizeHTML, "sanitize-html", false, "Strip unsafe markup from HTML bodies")
	cmd.Flags().BoolVar(&props.ValidateAddresses, "validate-addresses", false, "Reject malformed addresses before sending")

	return cmd
}

func writeResult(rt *runtimeState, format output.Format, res mail.EmailCommunicationResult) error {
	if format == output.FormatTable {
		output.WriteResultTable(rt.Writer(), res)
		return nil
	}
	return output.WriteObject(rt.Writer(), format, res)
}
