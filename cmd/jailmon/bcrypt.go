package jailmon

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BcryptOptions is a struct to support the bcrypt command
type BcryptOptions struct {
	Cost   int
	Length int
	Random bool
}

// NewBcryptOptions returns initialized Options
func NewBcryptOptions() *BcryptOptions {
	return &BcryptOptions{
		Cost:   bcrypt.DefaultCost + 2, //nolint:gomnd // 12, interactive use can afford it
		Length: 32,
	}
}

func newBcryptCmd() *cobra.Command {
	oB := NewBcryptOptions()

	bcryptCmd := &cobra.Command{
		Use:   "bcrypt [password]",
		Short: "Returns bcrypt encrypted passwords suitable for HTTP Basic Auth",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBcrypt(cmd, oB, args)
		},
	}
	bcryptCmd.Flags().IntVarP(&oB.Cost, "cost", "c", oB.Cost, "Computes the hash using the given cost.")
	bcryptCmd.Flags().IntVarP(&oB.Length, "length", "l", oB.Length, "Specify the random password length.")
	bcryptCmd.Flags().BoolVarP(&oB.Random, "random", "r", oB.Random,
		"Generate a random password instead of having to specify one.")

	return bcryptCmd
}

func runBcrypt(cmd *cobra.Command, oB *BcryptOptions, args []string) error {
	if err := oB.Validate(cmd); err != nil {
		Fatal(cmd, fmt.Sprintf("Error validating bcrypt: %s\n", err), 1)
	}

	if err := oB.Run(cmd, args); err != nil {
		Fatal(cmd, fmt.Sprintf("Error running bcrypt: %s\n", err), 1)
	}

	return nil
}

// Validate validates the provided options
func (oB *BcryptOptions) Validate(*cobra.Command) error {
	if oB.Cost < bcrypt.MinCost || oB.Cost > bcrypt.MaxCost {
		return fmt.Errorf("cost cannot be less than %d or more than %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if oB.Length < 1 {
		return errors.New("--length cannot be less than 1")
	}

	return nil
}

// Run executes the bcrypt command
func (oB *BcryptOptions) Run(cmd *cobra.Command, args []string) error {
	var password string
	var err error

	switch {
	case len(args) == 1:
		if args[0] == "" {
			return errors.New("password cannot be empty")
		}
		password = args[0]
	case oB.Random:
		password, err = randomPassword(oB.Length)
		if err != nil {
			return err
		}
	default:
		password, err = promptPassword(cmd)
		if err != nil {
			return err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), oB.Cost)
	if err != nil {
		return err
	}

	if oB.Random {
		cmd.Printf("Password: %s\n", password)
	}
	cmd.Printf("Hash: %s\n", string(hash))

	return nil
}

// randomPassword draws length alphanumeric characters from the system's
// CSPRNG. Alphanumeric keeps the result safe to paste into configs and
// shells.
func randomPassword(length int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

// promptPassword reads the password twice from the terminal without echo.
func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; pass a password argument or use --random")
	}

	cmd.Print("Password: ")
	password, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", err
	}

	cmd.Print("Confirm password: ")
	confirmation, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", err
	}

	if string(password) != string(confirmation) {
		return "", errors.New("password mismatch")
	}

	return string(password), nil
}
