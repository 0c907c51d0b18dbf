// Package archive packages a staged kit directory into the single-file
// distribution format: a gzip-compressed tarball whose one top-level
// directory is named after the kit code.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Ext is the archive file extension, without the dot.
const Ext = "h2drumkit"

// Staging is a transient directory holding the manifest and the extracted
// layer files before packaging. It lives inside a private temp directory
// and is discarded with Cleanup on every exit path.
type Staging struct {
	tmp  string
	Dir  string // <tmp>/<kit code>; files staged here
	Code string
}

// NewStaging creates the per-run staging directory for a kit code.
func NewStaging(code string) (*Staging, error) {
	tmp, err := os.MkdirTemp("", "drumkit-")
	if err != nil {
		return nil, fmt.Errorf("creating staging dir: %w", err)
	}
	dir := filepath.Join(tmp, code)
	if err := os.Mkdir(dir, 0o755); err != nil {
		os.RemoveAll(tmp)
		return nil, fmt.Errorf("creating staging dir: %w", err)
	}
	return &Staging{tmp: tmp, Dir: dir, Code: code}, nil
}

// Path resolves a filename inside the staging directory.
func (s *Staging) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Cleanup removes the staging directory. Safe to call more than once.
func (s *Staging) Cleanup() {
	if s.tmp != "" {
		os.RemoveAll(s.tmp)
		s.tmp = ""
	}
}

// Pack archives the staging directory to dst, replacing any existing file
// there. Entries are written in sorted name order under the kit-code
// directory so repeated runs produce identical listings.
func (s *Staging) Pack(dst string) error {
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing %s: %w", dst, err)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return fmt.Errorf("reading staging dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	dirInfo, err := os.Stat(s.Dir)
	if err != nil {
		return fmt.Errorf("archiving %s: %w", s.Code, err)
	}
	if err := writeHeader(tw, dirInfo, s.Code+"/"); err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := s.packFile(tw, entry.Name()); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

func (s *Staging) packFile(tw *tar.Writer, name string) error {
	path := s.Path(name)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("archiving %s: %w", name, err)
	}
	if err := writeHeader(tw, info, s.Code+"/"+name); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("archiving %s: %w", name, err)
	}
	defer f.Close()
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("archiving %s: %w", name, err)
	}
	return nil
}

func writeHeader(tw *tar.Writer, info os.FileInfo, name string) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("archiving %s: %w", name, err)
	}
	hdr.Name = name
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("archiving %s: %w", name, err)
	}
	return nil
}
