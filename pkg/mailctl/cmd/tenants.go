package cmd

import (
	"github.com/spf13/cobra"

	"github.com/telekom/mail-dispatcher/pkg/mailctl/output"
	"github.com/telekom/mail-dispatcher/pkg/tenant"
)

const maskedPassword = "****"

func NewTenantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tenants",
		Short: "List tenants and their email communication policies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := rt.OutputFormat()
			if err != nil {
				return err
			}
			c, err := rt.Components()
			if err != nil {
				return err
			}
			defs := maskTenants(c.Tenants.List())
			if format == output.FormatTable {
				output.WriteTenantTable(rt.Writer(), defs)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, defs)
		},
	}
}

// maskTenants returns deep copies of defs with passwords replaced.
func maskTenants(defs []tenant.Definition) []tenant.Definition {
	out := make([]tenant.Definition, len(defs))
	for i, d := range defs {
		out[i] = d
		p := d.EmailPolicy()
		if p == nil {
			continue
		}
		masked := *p
		if masked.Password != "" {
			masked.Password = maskedPassword
		}
		out[i].CommunicationPolicy = &tenant.CommunicationPolicy{Email: &masked}
	}
	return out
}
