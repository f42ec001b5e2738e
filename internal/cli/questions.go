package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FillInitOptionsInteractive prompts the user to confirm or override defaults.
// Empty answers, and a closed input, keep the provided values.
func FillInitOptionsInteractive(in io.Reader, out io.Writer, opts *InitOptions) {
	reader := bufio.NewReader(in)

	ask := func(question string, value *string) {
		fmt.Fprintf(out, "%s [%s]: ", question, *value)
		if s, _ := reader.ReadString('\n'); strings.TrimSpace(s) != "" {
			*value = strings.TrimSpace(s)
		}
	}

	ask("Project directory", &opts.Dir)
	ask("Canvas endpoint", &opts.Endpoint)
	ask("Course id", &opts.CourseID)
	ask("Output directory", &opts.OutputDir)
	ask("Template directory", &opts.TemplateDir)
}
