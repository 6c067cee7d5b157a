package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/electroredes/contactguard/pkg/contact"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "sanitize and validate a JSON form read from stdin",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "strict", Usage: "exit with an error when the form is invalid"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return runCheck(os.Stdin, os.Stdout, cmd.Bool("strict"))
		},
	}
}

// runCheck prints the sanitized and validated form as indented JSON.
func runCheck(in io.Reader, out io.Writer, strict bool) error {
	var f contact.Form
	if err := json.NewDecoder(in).Decode(&f); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}

	res := contact.SanitizeAndValidate(f)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return err
	}

	if strict && !res.Valid {
		return &contact.ValidationError{Fields: res.Errors, Result: res}
	}
	return nil
}
