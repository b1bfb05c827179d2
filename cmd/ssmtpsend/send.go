package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	ssmtp "github.com/richwalm/ssmtp"
	"github.com/richwalm/ssmtp/internal/log"
)

var (
	fromAddr    string
	toAddrs     []string
	ccAddrs     []string
	bccAddrs    []string
	subject     string
	body        string
	heloName    string
	attachPaths []string

	sendCmd = &cobra.Command{
		Use:   "send",
		Short: "send one message",
		RunE:  send,
	}
)

func init() {
	sendCmd.Flags().StringVar(&fromAddr, "from", "", "sender address (required)")
	sendCmd.Flags().StringArrayVar(&toAddrs, "to", nil, "recipient address, repeatable")
	sendCmd.Flags().StringArrayVar(&ccAddrs, "cc", nil, "Cc address, repeatable")
	sendCmd.Flags().StringArrayVar(&bccAddrs, "bcc", nil, "Bcc address, repeatable (never rendered in headers)")
	sendCmd.Flags().StringVar(&subject, "subject", "", "message subject")
	sendCmd.Flags().StringVar(&body, "body", "", "message body")
	sendCmd.Flags().StringVar(&heloName, "helo", "localhost", "hostname to claim in HELO")
	sendCmd.Flags().StringArrayVar(&attachPaths, "attach", nil, "path to a file to attach, repeatable")

	rootCmd.AddCommand(sendCmd)
}

func send(cmd *cobra.Command, args []string) error {
	if fromAddr == "" || len(toAddrs) == 0 {
		return cmd.Help()
	}

	domain, err := domainOf(toAddrs[0])
	if err != nil {
		return err
	}

	logger, err := log.New(log.OutputStderr.String())
	if err != nil {
		return err
	}
	if verbose {
		logger.SetLevel("debug")
	}

	cfg := ssmtp.DefaultConfig()
	cfg.HeloName = heloName
	cfg.Logger = logger

	sess, err := ssmtp.NewSession(cfg)
	if err != nil {
		return err
	}

	if err := sess.Connect(domain); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer sess.Disconnect()

	if err := sess.Address(ssmtp.AddressFrom, fromAddr); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	for _, to := range toAddrs {
		if err := sess.Address(ssmtp.AddressTo, to); err != nil {
			return fmt.Errorf("to %s: %w", to, err)
		}
	}
	for _, cc := range ccAddrs {
		if err := sess.Address(ssmtp.AddressCC, cc); err != nil {
			return fmt.Errorf("cc %s: %w", cc, err)
		}
	}
	for _, bcc := range bccAddrs {
		if err := sess.Address(ssmtp.AddressBCC, bcc); err != nil {
			return fmt.Errorf("bcc %s: %w", bcc, err)
		}
	}

	var attachments ssmtp.Attachments
	for _, path := range attachPaths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("attach %s: %w", path, err)
		}
		defer f.Close()
		attachments = append(attachments, ssmtp.Attachment{
			Name:   path[strings.LastIndexByte(path, os.PathSeparator)+1:],
			Reader: f,
		})
	}

	if err := sess.Data(subject, body, attachments); err != nil {
		return fmt.Errorf("data: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "sent to %s (%d bytes)\n", domain, sess.BytesSent())
	return nil
}

func domainOf(addr string) (string, error) {
	i := strings.LastIndexByte(addr, '@')
	if i < 0 || i == len(addr)-1 {
		return "", fmt.Errorf("address %q has no domain", addr)
	}
	return addr[i+1:], nil
}
