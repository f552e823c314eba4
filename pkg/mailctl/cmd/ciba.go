package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telekom/mail-dispatcher/pkg/config"
	"github.com/telekom/mail-dispatcher/pkg/mail"
	"github.com/telekom/mail-dispatcher/pkg/mailctl/output"
)

func NewCibaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ciba",
		Short: "Inspect and exercise the OIDC CIBA verification settings",
	}
	cmd.AddCommand(newCibaShowCommand(), newCibaNotifyCommand())
	return cmd
}

type cibaView struct {
	Properties    config.CibaProperties `json:"properties" yaml:"properties"`
	MaxTimeToLive string                `json:"maxTimeToLive" yaml:"maxTimeToLive"`
}

func newCibaShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective CIBA properties",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := rt.OutputFormat()
			if err != nil {
				return err
			}
			p := rt.cfg.OIDC.CIBA
			ttl, err := p.MaxTimeToLive()
			if err != nil {
				return err
			}
			if format == output.FormatTable {
				output.WriteCibaTable(rt.Writer(), p, ttl)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, cibaView{Properties: p, MaxTimeToLive: ttl.String()})
		},
	}
}

func newCibaNotifyCommand() *cobra.Command {
	var (
		to     []string
		link   string
		tenant string
		locale string
	)

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send the CIBA verification mail",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if len(to) == 0 {
				return errors.New("at least one --to address is required")
			}
			if link == "" {
				return errors.New("--link is required")
			}
			format, err := rt.OutputFormat()
			if err != nil {
				return err
			}
			c, err := rt.Components()
			if err != nil {
				return err
			}

			props := rt.cfg.OIDC.CIBA.Verification.Mail
			req := mail.EmailMessageRequest{
				To:         to,
				Body:       verificationBody(props.Text, link),
				Tenant:     tenant,
				Locale:     locale,
				Properties: props,
			}
			res, sendErr := c.Dispatcher.Send(cmd.Context(), req)
			if err := writeResult(rt, format, res); err != nil {
				return err
			}
			return sendErr
		},
	}

	cmd.Flags().StringSliceVar(&to, "to", nil, "Recipient address (repeatable)")
	cmd.Flags().StringVar(&link, "link", "", "Verification link inserted into the mail text")
	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant whose communication policy applies")
	cmd.Flags().StringVar(&locale, "locale", "", "Locale used to resolve the subject key")

	return cmd
}

// verificationBody replaces the first %s in text with link, or appends link
// when there is none. Any other % is kept as is.
func verificationBody(text, link string) string {
	if strings.Contains(text, "%s") {
		return strings.Replace(text, "%s", link, 1)
	}
	return strings.TrimSpace(text + " " + link)
}
