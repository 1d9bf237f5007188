// Package cclient is the client side of the chttp API.
//
// The intended flow is to upload files, keep only the returned root,
// and later use VerifyFile or VerifyFiles to confirm that downloads
// still match that root.
package cclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/crest-engine/crest"
	"github.com/crest-engine/crest/chttp"
	"github.com/crest-engine/crest/cstore"
)

// ErrNotFound indicates that the server has no file with the requested name.
var ErrNotFound = errors.New("file not found on server")

// ErrProofInvalid indicates that downloaded content failed verification
// against the trusted root.
var ErrProofInvalid = errors.New("proof did not validate against trusted root")

// Client talks to a chttp server.
type Client struct {
	// BaseURL is the server's root URL, without a trailing slash.
	BaseURL string

	// HTTP may be nil, in which case http.DefaultClient is used.
	HTTP *http.Client

	// Hasher must match the server's configured hasher
	// for verification to succeed.
	Hasher crest.Hasher
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Upload sends the given files to the server
// and returns the new root of the file table.
func (c *Client) Upload(ctx context.Context, files map[string][]byte) (crest.HashValue, error) {
	body, err := json.Marshal(chttp.UploadRequest{Files: files})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.BaseURL+"/v1/files", bytes.NewReader(body),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var rr chttp.RootResponse
	if err := c.doJSON(req, &rr); err != nil {
		return 0, err
	}
	return rr.Root, nil
}

// Download fetches the named file's content.
func (c *Client) Download(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.BaseURL+"/v1/files/"+url.PathEscape(name), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download body: %w", err)
	}
	return content, nil
}

// Root fetches the server's current root.
func (c *Client) Root(ctx context.Context) (crest.HashValue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/root", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build root request: %w", err)
	}

	var rr chttp.RootResponse
	if err := c.doJSON(req, &rr); err != nil {
		return 0, err
	}
	return rr.Root, nil
}

// Proof fetches a single-leaf proof for the named file,
// along with the root the server computed it against.
func (c *Client) Proof(ctx context.Context, name string) (crest.HashValue, crest.Proof, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.BaseURL+"/v1/proofs/"+url.PathEscape(name), nil,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build proof request: %w", err)
	}

	var pr chttp.ProofResponse
	if err := c.doJSON(req, &pr); err != nil {
		return 0, nil, err
	}
	return pr.Root, pr.Proof, nil
}

// MultiProof fetches a compact proof covering the named files.
func (c *Client) MultiProof(ctx context.Context, names []string) (chttp.MultiProofResponse, error) {
	body, err := json.Marshal(chttp.MultiProofRequest{Names: names})
	if err != nil {
		return chttp.MultiProofResponse{}, fmt.Errorf("failed to marshal multiproof request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.BaseURL+"/v1/multiproof", bytes.NewReader(body),
	)
	if err != nil {
		return chttp.MultiProofResponse{}, fmt.Errorf("failed to build multiproof request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var mr chttp.MultiProofResponse
	if err := c.doJSON(req, &mr); err != nil {
		return chttp.MultiProofResponse{}, err
	}
	return mr, nil
}

// VerifyFile downloads the named file and checks it against trustedRoot,
// using a proof fetched from the server.
// On success it returns the verified content.
func (c *Client) VerifyFile(
	ctx context.Context, name string, trustedRoot crest.HashValue,
) ([]byte, error) {
	content, err := c.Download(ctx, name)
	if err != nil {
		return nil, err
	}

	root, proof, err := c.Proof(ctx, name)
	if err != nil {
		return nil, err
	}
	if root != trustedRoot {
		return nil, fmt.Errorf(
			"server root %d does not match trusted root %d: %w",
			root, trustedRoot, ErrProofInvalid,
		)
	}

	if !crest.ValidateProof(c.Hasher, trustedRoot, cstore.Leaf(c.Hasher, content), proof) {
		return nil, fmt.Errorf("content of %q: %w", name, ErrProofInvalid)
	}
	return content, nil
}

// VerifyFiles downloads the named files and checks them all at once
// against trustedRoot, using a single compact multiproof.
// On success it returns the verified contents in the same order as names.
func (c *Client) VerifyFiles(
	ctx context.Context, names []string, trustedRoot crest.HashValue,
) ([][]byte, error) {
	mr, err := c.MultiProof(ctx, names)
	if err != nil {
		return nil, err
	}
	if mr.Root != trustedRoot {
		return nil, fmt.Errorf(
			"server root %d does not match trusted root %d: %w",
			mr.Root, trustedRoot, ErrProofInvalid,
		)
	}
	if len(mr.Leaves) != len(names) {
		return nil, fmt.Errorf(
			"server returned %d leaves for %d names: %w",
			len(mr.Leaves), len(names), ErrProofInvalid,
		)
	}

	contents := make([][]byte, len(names))
	for i, name := range names {
		content, err := c.Download(ctx, name)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(cstore.Leaf(c.Hasher, content), mr.Leaves[i]) {
			return nil, fmt.Errorf("content of %q does not match proven leaf: %w", name, ErrProofInvalid)
		}
		contents[i] = content
	}

	if !crest.ValidateMulti(c.Hasher, trustedRoot, mr.Leaves, mr.Proof) {
		return nil, fmt.Errorf("multiproof over %d files: %w", len(names), ErrProofInvalid)
	}
	return contents, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", resp.Request.URL.Path, ErrNotFound)
	case resp.StatusCode >= 400:
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			return fmt.Errorf("server rejected %s: %s", resp.Request.URL.Path, e.Error)
		}
		return fmt.Errorf("server rejected %s with status %d", resp.Request.URL.Path, resp.StatusCode)
	default:
		return nil
	}
}
