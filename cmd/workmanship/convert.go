package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/workmanship/internal/layout"
	"github.com/verte-zerg/workmanship/internal/lessons"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Derive the lessons of other layouts from one layout",
		Long: `Translate every lesson of the --from layout into each --to layout and write
the extended lessons file. A target is given as Title=key, where key is the
menu key of the derived layout. Append ! to the key when the layout tables
repeat characters, e.g. 'Workman(EL)=ς!'. Without --to all built-in layouts
are derived.`,
		Args: cobra.NoArgs,
		RunE: runConvertCmd,
	}
	cmd.Flags().StringVar(&convertFrom, "from", layout.Dvorak, "source layout")
	cmd.Flags().StringArrayVar(&convertTo, "to", nil, "target layout as Title=key[!] (repeatable)")
	cmd.Flags().StringVar(&convertIn, "in", "", "lessons file to read (default: built-in lessons)")
	cmd.Flags().StringVar(&convertOut, "out", "", "lessons file to write (default: stdout)")
	return cmd
}

func runConvertCmd(cmd *cobra.Command, _ []string) error {
	catalog, err := loadCatalog(convertIn)
	if err != nil {
		return err
	}
	conversions, err := resolveConversions(convertFrom, convertTo)
	if err != nil {
		return err
	}
	out, err := catalog.Convert(conversions...)
	if err != nil {
		return fmt.Errorf("failed to convert lessons: %w", err)
	}

	var buf bytes.Buffer
	if err := out.Dump(&buf); err != nil {
		return err
	}
	if convertOut == "" {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := writeFile(convertOut, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", convertOut, err)
	}
	for _, conv := range conversions {
		logErrf("Derived %s from %s\n", conv.To, conv.From)
	}
	logErrf("Wrote %s\n", convertOut)
	return nil
}

// resolveConversions parses the --to targets, or derives every built-in
// layout other than from when none are given.
func resolveConversions(from string, targets []string) ([]lessons.Conversion, error) {
	if _, err := layout.Lookup(from); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		conversions := make([]lessons.Conversion, 0, len(lessons.DefaultConversions))
		for _, conv := range lessons.DefaultConversions {
			if conv.To == from {
				continue
			}
			conv.From = from
			conversions = append(conversions, conv)
		}
		return conversions, nil
	}
	conversions := make([]lessons.Conversion, 0, len(targets))
	for _, target := range targets {
		conv, err := parseConversion(from, target)
		if err != nil {
			return nil, err
		}
		conversions = append(conversions, conv)
	}
	return conversions, nil
}

func parseConversion(from, target string) (lessons.Conversion, error) {
	title, key, ok := strings.Cut(target, "=")
	title = strings.TrimSpace(title)
	key = strings.TrimSpace(key)
	if !ok || title == "" || key == "" {
		return lessons.Conversion{}, fmt.Errorf("invalid --to value %q (expected Title=key)", target)
	}
	conv := lessons.Conversion{From: from, To: title}
	if strings.HasSuffix(key, "!") {
		conv.AllowCollisions = true
		key = strings.TrimSuffix(key, "!")
		if key == "" {
			return lessons.Conversion{}, fmt.Errorf("invalid --to value %q (empty key)", target)
		}
	}
	conv.Key = key
	if title == from {
		return lessons.Conversion{}, fmt.Errorf("--to %s is the source layout", title)
	}
	if _, err := layout.Lookup(title); err != nil {
		return lessons.Conversion{}, err
	}
	return conv, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "lessons-*.yml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
