package chttp

import (
	"github.com/crest-engine/crest"
)

// UploadRequest is the body of POST /v1/files.
// Keys are file names; values are the raw file contents.
type UploadRequest struct {
	Files map[string][]byte `json:"files"`
}

// RootResponse reports the current commitment over the file table.
type RootResponse struct {
	Root crest.HashValue `json:"root"`
}

// ProofResponse is the body of GET /v1/proofs/{name}.
//
// The root is included so a client holding a stale root
// can detect that the table changed underneath it.
type ProofResponse struct {
	Root  crest.HashValue `json:"root"`
	Proof crest.Proof     `json:"proof"`
}

// MultiProofRequest is the body of POST /v1/multiproof.
type MultiProofRequest struct {
	Names []string `json:"names"`
}

// MultiProofResponse carries a compact proof
// over the requested files, with their leaves
// in the same order as the request names.
type MultiProofResponse struct {
	Root   crest.HashValue         `json:"root"`
	Proof  crest.CompactMultiProof `json:"proof"`
	Leaves [][]byte                `json:"leaves"`
}

type errorResponse struct {
	Error string `json:"error"`
}
