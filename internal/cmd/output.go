package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/progress"
	"github.com/kartel/whygo/internal/util"
	"github.com/kartel/whygo/internal/whygo"
)

// Output formats accepted by -o.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func outputFormats() []string {
	return []string{formatTable, formatJSON, formatYAML}
}

func checkFormat(format string) error {
	if !slices.Contains(outputFormats(), format) {
		return fmt.Errorf("%w: unknown output format %q (want %s)",
			errors.ErrInvalidInput, format, strings.Join(outputFormats(), ", "))
	}
	return nil
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q is not a structured format", errors.ErrInvalidInput, format)
}

// resolveQuarter parses an explicit --quarter or falls back to the
// configured quarter.
func resolveQuarter(r *runtime, flag string) (whygo.Quarter, error) {
	if flag == "" {
		return r.cfg.Dashboard.ResolveQuarter(r.now()), nil
	}
	q, err := whygo.ParseQuarter(flag)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	return q, nil
}

// percentLabel renders a result's percentage, or "-" when it has none.
func percentLabel(res progress.Result) string {
	if res.Percent == nil {
		return "-"
	}
	return util.Percent(*res.Percent)
}

// amountLabel renders an optional measure, or "-" when it is not set.
func amountLabel(n whygo.Number) string {
	if !n.Valid {
		return "-"
	}
	return util.FormatAmount(n.Float64)
}
