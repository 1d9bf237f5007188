// Command crest is the client for a crestd server.
//
// It uploads files, downloads them with verification against a
// previously recorded root, and compares proof sizes offline.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/crest-engine/crest"
	"github.com/crest-engine/crest/cclient"
	"github.com/crest-engine/crest/chash"
	"github.com/crest-engine/crest/csize"
)

func main() {
	app := &cli.App{
		Name:  "crest",
		Usage: "client for a crestd file server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "base URL of the crestd server",
				EnvVars: []string{"CREST_SERVER"},
			},
			&cli.StringFlag{
				Name:    "hasher",
				Value:   "sip",
				Usage:   "leaf hasher, must match the server's: sip, xx",
				EnvVars: []string{"CREST_HASHER"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "upload files and print the new root",
				ArgsUsage: "FILE [FILE...]",
				Action:    runUpload,
			},
			{
				Name:      "download",
				Usage:     "download a file, verifying it against a trusted root",
				ArgsUsage: "NAME ROOT",
				Action:    runDownload,
			},
			{
				Name:   "root",
				Usage:  "print the server's current root",
				Action: runRoot,
			},
			{
				Name:      "proof",
				Usage:     "fetch and print the proof for a file",
				ArgsUsage: "NAME",
				Action:    runProof,
			},
			{
				Name:  "sizecmp",
				Usage: "compare multiproof size against separate single proofs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "leaves",
						Value: 128,
						Usage: "number of leaves in the simulated tree",
					},
					&cli.IntFlag{
						Name:  "reveal",
						Value: 16,
						Usage: "number of leaves to prove",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Value: 1,
						Usage: "seed for the simulated words and sampled indices",
					},
				},
				Action: runSizeCmp,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient(c *cli.Context) (*cclient.Client, error) {
	h, err := chash.ByName(c.String("hasher"))
	if err != nil {
		return nil, err
	}

	return &cclient.Client{
		BaseURL: c.String("server"),
		Hasher:  h,
	}, nil
}

func runUpload(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("upload requires at least one file path")
	}

	files := make(map[string][]byte, c.NArg())
	for _, path := range c.Args().Slice() {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files[filepath.Base(path)] = content
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}

	root, err := client.Upload(c.Context, files)
	if err != nil {
		return err
	}

	fmt.Println(root)
	return nil
}

func runDownload(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("download requires a file name and a trusted root")
	}
	name := c.Args().Get(0)

	rootU, err := strconv.ParseUint(c.Args().Get(1), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid root %q: %w", c.Args().Get(1), err)
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}

	content, err := client.VerifyFile(c.Context, name, crest.HashValue(rootU))
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(content)
	return err
}

func runRoot(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}

	root, err := client.Root(c.Context)
	if err != nil {
		return err
	}

	fmt.Println(root)
	return nil
}

func runProof(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("proof requires a file name")
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}

	root, proof, err := client.Proof(c.Context, c.Args().Get(0))
	if err != nil {
		return err
	}

	fmt.Printf("root: %d\n", root)
	for i, sib := range proof {
		fmt.Printf("%3d: %-5s %d\n", i, sib.Side, sib.Hash)
	}
	return nil
}

func runSizeCmp(c *cli.Context) error {
	h, err := chash.ByName(c.String("hasher"))
	if err != nil {
		return err
	}

	nLeaves := c.Int("leaves")
	reveal := c.Int("reveal")
	if nLeaves < 1 || reveal < 0 || reveal > nLeaves {
		return fmt.Errorf("need 1 <= leaves and 0 <= reveal <= leaves, got %d and %d", nLeaves, reveal)
	}

	cmp := csize.CompareRandom(h, nLeaves, reveal, c.Uint64("seed"))
	fmt.Println(cmp)
	return nil
}
