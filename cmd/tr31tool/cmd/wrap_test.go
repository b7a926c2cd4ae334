// nolint:all // test package
package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestWrapCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name: "Valid TDES key version A",
			args: []string{
				"wrap",
				"--key", "3F419E1CB7079442AA37474C2EFBF8B8",
				"--kbpk", "89E88CF7931444F334BD7547FC3F380C",
				"--version", "A",
				"--usage", "P0",
				"--algorithm", "T",
				"--mode", "E",
				"--exportability", "E",
			},
			wantErr: false,
		},
		{
			name: "Valid AES key version D",
			args: []string{
				"wrap",
				"--key", "3F419E1CB7079442AA37474C2EFBF8B8",
				"--kbpk", "000102030405060708090A0B0C0D0E0F101112131415161718191A1B1C1D1E1F",
				"--version", "D",
				"--usage", "K0",
				"--algorithm", "A",
				"--mode", "B",
				"--exportability", "E",
			},
			wantErr: false,
		},
		{
			name: "Invalid key hex",
			args: []string{
				"wrap",
				"--key", "NOTHEX",
				"--kbpk", "89E88CF7931444F334BD7547FC3F380C",
				"--version", "A",
			},
			wantErr: true,
		},
		{
			name: "Invalid kbpk length",
			args: []string{
				"wrap",
				"--key", "3F419E1CB7079442AA37474C2EFBF8B8",
				"--kbpk", "0011",
				"--version", "A",
			},
			wantErr: true,
		},
		{
			name: "Missing required flags",
			args: []string{
				"wrap",
				"--version", "A",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := rootCmd
			// cobra keeps parsed flag values (and their "set" marks, which the required-flag
			// check reads) between Execute calls; start each case from defaults.
			wrapCmd.Flags().VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
			b := bytes.NewBufferString("")
			cmd.SetOut(b)
			cmd.SetArgs(tt.args)
			err := cmd.Execute()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, b.String())
			}
		})
	}
}
