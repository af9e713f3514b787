// Package integration provides embedded shell integration snippets.
package integration

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"text/template"
)

// ZshFzf contains the zsh shell integration script with fzf support.
//
//go:embed zsh-fzf.sh
var ZshFzf string

// Render renders the integration script with the path of the running binary.
func Render() (string, error) {
	binary, err := os.Executable()
	if err != nil {
		return "", err
	}

	return render(filepath.ToSlash(binary))
}

func render(binary string) (string, error) {
	tmpl, err := template.New("zsh-fzf").Parse(ZshFzf)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"Binary": binary,
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
