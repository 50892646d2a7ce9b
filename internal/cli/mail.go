package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dsh2dsh/htmlfix/internal/logger"
	"github.com/dsh2dsh/htmlfix/internal/message"
)

type mailFlags struct {
	from    string
	to      []string
	subject string
	save    string
	send    bool
}

func (self *app) mailCmd() *cobra.Command {
	var flags mailFlags

	cmd := &cobra.Command{
		Use:   "mail [file]",
		Short: "Build an email message with fixed document as its body",
		Long: `Mail reads a document from file or stdin, fixes it and builds an email
message with it as an HTML body. The message is saved as .eml file into
HTMLFIX_OUTPUT_DIR, or to --save path, or sent through Postmark with --send.

Examples:
  htmlfix mail --from sender@example.com --to recipient@example.com \
    --subject "Fixed email" --save FixedNestedEmail.eml broken.html
  htmlfix mail --from sender@example.com --to recipient@example.com \
    --subject "Fixed email" --send broken.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return self.runMail(cmd, args, &flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.from, "from", "", "sender address")
	f.StringSliceVar(&flags.to, "to", nil, "recipient addresses")
	f.StringVar(&flags.subject, "subject", "", "message subject")
	f.StringVar(&flags.save, "save", "",
		"save the message to this file or directory")
	f.BoolVar(&flags.send, "send", false, "send the message through Postmark")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")
	cmd.MarkFlagsMutuallyExclusive("save", "send")
	return cmd
}

func (self *app) runMail(cmd *cobra.Command, args []string, flags *mailFlags,
) error {
	f, err := self.fixer()
	if err != nil {
		return err
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	var sender message.Sender
	var savedTo func(m message.Message) string
	if flags.send {
		sender, err = message.NewPostmarkSender(self.cfg.PostmarkServerToken,
			self.cfg.PostmarkAccountToken)
		if err != nil {
			return err
		}
	} else {
		path := flags.save
		if path == "" {
			path = self.cfg.OutputDir
		}
		fileSender := message.NewFileSender(path)
		sender, savedTo = fileSender, fileSender.Path
	}

	m, err := message.CreateFixedEmail(cmd.Context(), f, sender,
		input, flags.from, flags.to, flags.subject)
	if err != nil {
		return err
	}

	log := self.logger.With(logger.MessageID(m.ID))
	if savedTo == nil {
		log.Info("message sent")
		_, err = fmt.Fprintln(cmd.OutOrStdout(), m.ID)
		return err //nolint:wrapcheck // stdout
	}

	path := savedTo(m)
	log.Info("message saved", slog.String("path", path))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
	return err //nolint:wrapcheck // stdout
}
