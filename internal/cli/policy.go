package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func (self *app) policyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective allowlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return self.runPolicy(cmd.OutOrStdout())
		},
	}
}

func (self *app) runPolicy(w io.Writer) error {
	f, err := self.fixer()
	if err != nil {
		return err
	}
	p := f.Policy()

	var b strings.Builder
	fmt.Fprintf(&b, "elements: %s\n", strings.Join(p.AllowedElements(), " "))
	fmt.Fprintf(&b, "global attributes: %s\n",
		strings.Join(p.AllowedAttrs(), " "))
	for _, name := range p.AllowedElements() {
		if attrs := p.AllowedElementAttrs(name); len(attrs) > 0 {
			fmt.Fprintf(&b, "%s attributes: %s\n", name, strings.Join(attrs, " "))
		}
	}
	fmt.Fprintf(&b, "url schemes: %s\n", strings.Join(p.AllowedURLSchemes(), " "))
	fmt.Fprintf(&b, "keep valid urls: %t\n", f.KeepsValidURLs())

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write policy: %w", err)
	}
	return nil
}
