// Package completion installs and removes shell completion scripts.
package completion

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// Supported shells.
const (
	Bash       = "bash"
	Zsh        = "zsh"
	Fish       = "fish"
	PowerShell = "powershell"
)

// Shells lists the shells that can be installed to a completion directory.
var Shells = []string{Bash, Zsh, Fish}

// Generate writes the completion script for shell.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case Bash:
		return root.GenBashCompletionV2(w, true)
	case Zsh:
		return root.GenZshCompletion(w)
	case Fish:
		return root.GenFishCompletion(w, true)
	case PowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return errors.NewValidationError("shell", shell, "unsupported shell")
}

// Path returns where the script for shell is installed. A Homebrew prefix is
// preferred when one is found, otherwise a directory under home.
func Path(shell, name string) (string, error) {
	prefix := brewPrefix()
	home, err := os.UserHomeDir()
	if err != nil && prefix == "" {
		return "", errors.WrapIO("resolve", "home", err)
	}

	switch shell {
	case Bash:
		if prefix != "" {
			return filepath.Join(prefix, "etc", "bash_completion.d", name), nil
		}
		return filepath.Join(home, ".bash_completion.d", name), nil
	case Zsh:
		if prefix != "" {
			return filepath.Join(prefix, "share", "zsh", "site-functions", "_"+name), nil
		}
		return filepath.Join(home, ".zsh", "completions", "_"+name), nil
	case Fish:
		if prefix != "" {
			return filepath.Join(prefix, "share", "fish", "vendor_completions.d", name+".fish"), nil
		}
		return filepath.Join(home, ".config", "fish", "completions", name+".fish"), nil
	}
	return "", errors.NewValidationError("shell", shell, "completion install supports bash, zsh and fish")
}

func brewPrefix() string {
	if p := os.Getenv("HOMEBREW_PREFIX"); p != "" {
		return p
	}
	for _, p := range []string{"/opt/homebrew", "/usr/local"} {
		if _, err := os.Stat(filepath.Join(p, "bin", "brew")); err == nil {
			return p
		}
	}
	return ""
}

// Install writes the completion script for shell and returns its path.
func Install(root *cobra.Command, shell string) (string, error) {
	path, err := Path(shell, root.Name())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", errors.WrapIO("create", path, err)
	}
	if err := Generate(root, shell, f); err != nil {
		_ = f.Close()
		return "", errors.WrapResource("generate", "completion", shell, err)
	}
	return path, errors.WrapIO("close", path, f.Close())
}

// Uninstall removes the installed script for shell. It reports false when
// nothing was installed.
func Uninstall(shell, name string) (string, bool, error) {
	path, err := Path(shell, name)
	if err != nil {
		return "", false, err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return path, false, nil
		}
		return path, false, errors.WrapIO("remove", path, err)
	}
	return path, true, nil
}
