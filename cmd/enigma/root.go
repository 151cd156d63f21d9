package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-enigma/pkg/logging"
	"github.com/dd0wney/cluso-enigma/pkg/metrics"
)

// app holds what the subcommands of one invocation share
type app struct {
	registry  *metrics.Registry
	logger    logging.Logger
	logLevel  logging.Level
	lookupEnv func(string) (string, bool)
}

func newRootCommand(reg *metrics.Registry) *cobra.Command {
	a := &app{
		registry:  reg,
		logger:    logging.NewNopLogger(),
		lookupEnv: os.LookupEnv,
	}

	root := &cobra.Command{
		Use:   "enigma",
		Short: "Encipher text on a three-rotor Enigma machine",
		Long: `Encipher and decipher text on a three-rotor Enigma machine.

The machine is reciprocal: decrypt runs exactly the same operation as
encrypt, so a message enciphered with one key comes back with the same key.

KEY SOURCES (later ones win):
  built-in default     rotors I II III, positions AAA, rings AAA, reflector B
  --config key.yaml    key file in YAML or JSON
  ENIGMA_ROTORS, ENIGMA_POSITIONS, ENIGMA_RINGS, ENIGMA_PLUGBOARD, ENIGMA_REFLECTOR
  --rotors, --positions, --rings, --plugboard, --reflector

EXAMPLES:
  enigma encrypt --text "HELLOWORLD"
  enigma encrypt --rotors IV,II,V --positions GMQ --plugboard "AZ BY" --reflector C --text ATTACKATDAWN
  enigma keysheet --passphrase "wetterbericht" > today.yaml
  enigma decrypt --config today.yaml --file message.txt`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := a.logLevel
			if !cmd.Flags().Changed("log-level") {
				level = logging.LevelFromEnv()
			}
			a.logger = logging.NewJSONLogger(cmd.ErrOrStderr(), level).
				With(logging.RunID(uuid.NewString()), logging.Component("cli"))
		},
	}
	root.PersistentFlags().Var(&a.logLevel, "log-level",
		"Log level: debug, info, warn or error (default $"+logging.LevelEnv+" or info)")

	root.AddCommand(
		newCipherCommand(a, "encrypt", "Encrypt text, a file or stdin"),
		newCipherCommand(a, "decrypt", "Decrypt text, a file or stdin"),
		newKeysheetCommand(a),
		newCatalogCommand(),
	)
	return root
}
