package maven

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/mavenfetch/pkg/errors"
	"github.com/matzehuels/mavenfetch/pkg/integrations"
)

// Persister downloads package binaries into a local directory.
type Persister struct {
	client *integrations.Client
	dir    string
}

// NewPersister creates a Persister writing into dir. The directory is
// created on first use.
func NewPersister(client *integrations.Client, dir string) *Persister {
	if dir == "" {
		dir = "."
	}
	return &Persister{client: client, dir: dir}
}

// Dir returns the output directory.
func (p *Persister) Dir() string { return p.dir }

// Save downloads the ext file of c from the repository at base and stores it
// as "<dir>/<artifactId>-<version>.<ext>". The body is streamed into a
// temporary file and renamed into place, so a failed download never leaves a
// partial file under the final name. An existing file is replaced.
//
// Failures carry code PERSISTENCE_FAILURE.
func (p *Persister) Save(ctx context.Context, base string, c Coordinate, ext string) (string, int64, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", 0, errors.Wrap(errors.ErrCodePersistence, err, "create output directory %s", p.dir)
	}

	tmp, err := os.CreateTemp(p.dir, ".mavenfetch-*")
	if err != nil {
		return "", 0, errors.Wrap(errors.ErrCodePersistence, err, "create temporary file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	url := integrations.JoinURL(base, c.ArtifactPath(ext))
	n, err := p.client.Stream(ctx, url, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", n, errors.Wrap(errors.ErrCodePersistence, err, "download %s", url)
	}

	dest := filepath.Join(p.dir, c.FileName(ext))
	if err := os.Rename(tmpName, dest); err != nil {
		return "", n, errors.Wrap(errors.ErrCodePersistence, err, "write %s", dest)
	}
	return dest, n, nil
}
