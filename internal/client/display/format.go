// FILE: othello/internal/client/display/format.go
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// PrettyPrintJSON prints formatted JSON
func PrettyPrintJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%sError formatting JSON: %s%s\n", Red, err.Error(), Reset)
		return
	}
	fmt.Fprintln(w, string(data))
}

// FormatHistory numbers moves in pairs, Black first: "1.e3 f5 2.f6 pass"
func FormatHistory(moves []string) string {
	var sb strings.Builder
	for i, move := range moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d.", i/2+1)
		}
		sb.WriteString(move)
	}
	return sb.String()
}
