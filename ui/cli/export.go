// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"github.com/toeirei/userdesk/internal/i18n"
	"github.com/toeirei/userdesk/internal/model"
)

// exportData is the document written by the export command.
type exportData struct {
	SchemaVersion int          `json:"schema_version"`
	Source        string       `json:"source"`
	ExportedAt    time.Time    `json:"exported_at"`
	Users         []model.User `json:"users"`
}

func newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every user to a compressed (zstd) JSON file",
		Long: `Fetches the full user list and writes it into a single,
Zstandard-compressed JSON file.

'.zst' will be appended to the output name if it's not already present.
If no output file is specified, 'userdesk-export-YYYY-MM-DD.json.zst' is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := newClient().ListAll(cmd.Context())
			if err != nil {
				return err
			}

			filename := output
			if filename == "" {
				filename = fmt.Sprintf("userdesk-export-%s.json.zst", time.Now().Format("2006-01-02"))
			} else if !strings.HasSuffix(filename, ".zst") {
				filename += ".zst"
			}

			data := exportData{
				SchemaVersion: 1,
				Source:        appConfig.Directory.URL,
				ExportedAt:    time.Now().UTC(),
				Users:         users,
			}
			if err := writeCompressedExport(filename, &data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.export_success", len(users), filename))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	return cmd
}

// writeCompressedExport encodes data as JSON through a zstd writer.
func writeCompressedExport(filename string, data *exportData) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	if err := json.NewEncoder(zstdWriter).Encode(data); err != nil {
		_ = zstdWriter.Close()
		return fmt.Errorf("could not encode export: %w", err)
	}
	if err := zstdWriter.Close(); err != nil {
		return fmt.Errorf("could not finish zstd stream: %w", err)
	}
	return nil
}

// readCompressedExport handles reading and decoding a zstd-compressed export.
func readCompressedExport(filename string) (*exportData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var data exportData
	if err := json.NewDecoder(zstdReader).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &data, nil
}
