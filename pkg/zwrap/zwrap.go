// Package zwrap takes a file and, if it is gzipped, puts a
// decompressor in front of it. Close shuts the decompressor and then
// the file. Parameter files and fasta files both go through here, so
// either may be compressed.
package zwrap

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
)

// Reader reads through the decompressor if there is one.
type Reader struct {
	src  io.ReadCloser
	zrdr *gzip.Reader
}

// Read reads from the compressed stream if there is one, otherwise
// from the source.
func (r *Reader) Read(p []byte) (int, error) {
	if r.zrdr != nil {
		return r.zrdr.Read(p)
	}
	return r.src.Read(p)
}

// Close closes the decompressor, then the source. Both errors are
// returned if both fail.
func (r *Reader) Close() error {
	var errz error
	if r.zrdr != nil {
		errz = r.zrdr.Close()
	}
	return errors.Join(errz, r.src.Close())
}

// Compressed says whether reads go through gzip.
func (r *Reader) Compressed() bool { return r.zrdr != nil }

// Wrap insists on a gzipped source. It returns an error if the
// header is wrong.
func Wrap(src io.ReadCloser) (*Reader, error) {
	zrdr, err := gzip.NewReader(src)
	if err != nil {
		return nil, err
	}
	return &Reader{src: src, zrdr: zrdr}, nil
}

// ReadSeekCloser is a source we can rewind after sniffing it.
type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// WrapMaybe looks at the start of src. If it is gzipped, reads are
// decompressed. If not, src is rewound and read as it is. The result
// can no longer seek.
func WrapMaybe(src ReadSeekCloser) (*Reader, error) {
	if r, err := Wrap(src); err == nil {
		return r, nil
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &Reader{src: src}, nil
}

// Open opens a file which may or may not be compressed.
func Open(name string) (*Reader, error) {
	fp, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	r, err := WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, err
	}
	return r, nil
}
