package fpgakit

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// downloadChunkSize is the fixed transfer unit. Progress is reported
// per chunk, not per byte.
const downloadChunkSize = 1024

// unrecognizedStatusError is returned when the download handshake
// answers with anything other than 200.
type unrecognizedStatusError struct {
	Code int
	URL  string
}

func (e *unrecognizedStatusError) Error() string {
	return fmt.Sprintf("got an unrecognized status code '%d' when downloading %s", e.Code, e.URL)
}

// downloader streams one URL to one destination file. The connection
// is opened during construction and consumed exactly once by start;
// close releases it on every path and is safe to call repeatedly.
type downloader struct {
	url       string
	dest      string
	resp      *http.Response
	closeOnce sync.Once
}

// newDownloadClient builds an HTTP client with short connection-setup
// timeouts and no body timeout: a toolchain archive on a slow link may
// legitimately take a long time to transfer.
func newDownloadClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: 5 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = 5 * time.Second
	transport.ResponseHeaderTimeout = 5 * time.Second
	return &http.Client{Transport: transport}
}

// newDownloader performs the handshake synchronously. On any non-200
// response there is no partial object and no file on disk. The
// destination defaults to the URL's final path segment, placed under
// destDir when given.
func newDownloader(rawURL, destDir string) (*downloader, error) {
	name := rawURL[strings.LastIndex(rawURL, "/")+1:]
	dest := name
	if destDir != "" {
		dest = filepath.Join(destDir, name)
	}

	resp, err := newDownloadClient().Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("connection to %s failed: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &unrecognizedStatusError{Code: resp.StatusCode, URL: rawURL}
	}

	return &downloader{url: rawURL, dest: dest, resp: resp}, nil
}

// filePath returns the destination path, fixed before the first byte
// is written.
func (d *downloader) filePath() string {
	return d.dest
}

// size returns the server-declared content length. The exact length is
// needed up front to plan chunk-count progress, so a missing header is
// a hard error.
func (d *downloader) size() (int64, error) {
	if d.resp.ContentLength < 0 {
		return 0, fmt.Errorf("missing content length for %s", d.url)
	}
	return d.resp.ContentLength, nil
}

// lastModified returns the raw Last-Modified header, or "" if the
// server did not declare one.
func (d *downloader) lastModified() string {
	return d.resp.Header.Get("Last-Modified")
}

// chunkCount is the number of fixed-size chunks needed for size bytes.
func chunkCount(size int64) int64 {
	return (size + downloadChunkSize - 1) / downloadChunkSize
}

// start streams the body to the destination file in order, one chunk
// at a time, then restores the file's modification time from the
// Last-Modified header when the server sent one. The connection is
// released whether or not the transfer completed.
func (d *downloader) start() error {
	defer d.close()

	size, err := d.size()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(d.dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", d.dest, err)
	}
	defer out.Close()

	bar := newDownloadBar(chunkCount(size))
	buf := make([]byte, downloadChunkSize)
	var written int64
	for {
		n, rerr := io.ReadFull(d.resp.Body, buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return fmt.Errorf("failed to write to %s: %w", d.dest, werr)
			}
			written += int64(n)
			_ = bar.Add(1)
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("transfer from %s failed: %w", d.url, rerr)
		}
	}
	// ErrUnexpectedEOF is the normal end for the final partial chunk,
	// but it is also how the transport reports a body that died before
	// the declared length. Only the byte count tells them apart.
	if written != size {
		return fmt.Errorf("incomplete transfer from %s: got %d of %d bytes", d.url, written, size)
	}
	_ = bar.Finish()
	d.close()

	if lm := d.lastModified(); lm != "" {
		if mtime, perr := http.ParseTime(lm); perr == nil {
			if cerr := os.Chtimes(d.dest, mtime, mtime); cerr != nil {
				return fmt.Errorf("failed to restore timestamp on %s: %w", d.dest, cerr)
			}
		}
	}

	return nil
}

// close releases the network connection. Idempotent.
func (d *downloader) close() {
	d.closeOnce.Do(func() {
		d.resp.Body.Close()
	})
}

func newDownloadBar(chunks int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(chunks,
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(term.IsTerminal(int(os.Stderr.Fd()))),
		progressbar.OptionClearOnFinish(),
	)
}
