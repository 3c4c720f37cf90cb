package snapshot

import (
	"context"
	"os"

	"github.com/dmitrijs2005/medibook/internal/filex"
)

// FileTarget stores the document in a local file readable only by the owner.
type FileTarget struct {
	Path string
}

func (f FileTarget) Write(_ context.Context, data []byte) error {
	return filex.WriteFileAtomic(f.Path, data, 0o600)
}

func (f FileTarget) Read(_ context.Context) ([]byte, error) {
	return os.ReadFile(f.Path)
}

func (f FileTarget) String() string { return f.Path }
