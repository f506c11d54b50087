// Package netx holds small HTTP helpers for presigned object storage URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// DownloadPresignedURL fetches url and writes the body to path, replacing
// any existing file. It returns the number of bytes written.
func DownloadPresignedURL(ctx context.Context, url, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}
