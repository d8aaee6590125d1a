// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"fmt"
	"strings"

	apperrors "sqlblock/cli/internal/errors"
)

// PresentError formats an error for user display with masking.
// Execution failures include the client's captured output, indented.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	msg := Mask(err.Error())
	if context != "" {
		msg = fmt.Sprintf("%s: %s", context, msg)
	}

	var e *apperrors.E
	if errors.As(err, &e) && e.Kind == apperrors.ExecutionFailed {
		if out := strings.TrimRight(e.Output, "\n"); out != "" {
			msg += "\n  " + strings.ReplaceAll(Mask(out), "\n", "\n  ")
		}
	}
	return msg
}
