// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/errors"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

type memberResult struct {
	Email  string             `json:"email"`
	Found  bool               `json:"found"`
	Status model.MemberStatus `json:"status,omitempty"`
	Member *model.Member      `json:"member,omitempty"`
}

type pingResult struct {
	Status string `json:"status"`
}

// deleteResult reports whether the member was found and archived as cleaned.
type deleteResult struct {
	Email    string `json:"email"`
	Hard     bool   `json:"hard"`
	Archived bool   `json:"archived"`
}

// writeOutput encodes v as JSON or YAML. YAML goes through the JSON form so
// both formats share the same keys.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "", outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.NewValidation(fmt.Sprintf("unsupported output format %q", format))
	}
}

func (a *app) print(v any) error {
	return writeOutput(a.out, a.v.GetString("output"), v)
}
