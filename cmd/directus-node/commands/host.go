package commands

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/directus-community/directus-node/pkg/types"
)

// cliHost adapts command-line flags into the Host interface the dispatcher
// expects from a workflow runtime. Every input record sees the same
// parameters, which is all a one-shot CLI invocation needs.
type cliHost struct {
	params     map[string]any
	creds      types.Credentials
	binaryPath string
}

func (h *cliHost) Parameter(name string, _ int) (any, bool) {
	value, ok := h.params[name]
	return value, ok
}

func (h *cliHost) CurrentParameter(name string) (any, bool) {
	value, ok := h.params[name]
	return value, ok
}

func (h *cliHost) Credentials() (types.Credentials, error) {
	return h.creds, nil
}

func (h *cliHost) Binary(_ int, _ string) (*types.BinaryData, error) {
	if h.binaryPath == "" {
		return nil, fmt.Errorf("no binary file provided; use --binary")
	}
	data, err := os.ReadFile(h.binaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", h.binaryPath, err)
	}
	name := filepath.Base(h.binaryPath)
	return &types.BinaryData{
		Data:     data,
		FileName: name,
		MimeType: mime.TypeByExtension(filepath.Ext(name)),
	}, nil
}
