package hydra

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ProgressFunc receives the number of archive bytes sent so far and the
// total, which is -1 when the size is unknown.
type ProgressFunc func(sent, total int64)

// Archive is a library file to upload.
type Archive struct {
	Name string
	Size int64
	Body io.Reader
}

// progressReader counts bytes read from the archive body.
type progressReader struct {
	r        io.Reader
	sent     int64
	total    int64
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.progress != nil {
			p.progress(p.sent, p.total)
		}
	}
	return n, err
}

// Upload streams archive as the "file" part of a multipart form POSTed to path.
func (c *Client) Upload(ctx context.Context, path string, archive Archive, progress ProgressFunc) (map[string]any, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	total := archive.Size
	if total <= 0 {
		total = -1
	}
	body := &progressReader{r: archive.Body, total: total, progress: progress}

	go func() {
		part, err := mw.CreateFormFile("file", archive.Name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, body); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Resolve(path, nil), pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	out, err := c.do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	return out, nil
}
