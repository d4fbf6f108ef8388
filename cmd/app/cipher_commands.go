package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/fieldcrypt/cmd/app/commands"
	"github.com/allisson/fieldcrypt/internal/app"
	"github.com/allisson/fieldcrypt/internal/config"
)

func getCipherCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt",
			Usage: "Encrypt a value with the configured key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "plaintext",
					Aliases: []string{"p"},
					Usage:   "Value to encrypt (read from stdin when omitted)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.CipherUseCase()
				if err != nil {
					return err
				}

				return commands.RunEncrypt(
					ctx,
					useCase,
					commands.DefaultIO(),
					cmd.String("plaintext"),
					cmd.IsSet("plaintext"),
				)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt a value with the configured key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "ciphertext",
					Aliases: []string{"c"},
					Usage:   "Base64 envelope to decrypt (read from stdin when omitted)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.CipherUseCase()
				if err != nil {
					return err
				}

				return commands.RunDecrypt(
					ctx,
					useCase,
					commands.DefaultIO(),
					cmd.String("ciphertext"),
					cmd.IsSet("ciphertext"),
				)
			},
		},
	}
}
